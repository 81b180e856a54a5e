package remote

import (
	"context"
	"time"

	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
	"github.com/MahulePratik/gagan-netra-edge/internal/ports"
)

const objectKeyTimeLayout = "20060102_150405"

// Publisher uploads an incident's evidence image and structured record
// to the remote stores. The whole attempt lives under one context
// deadline of connect+read budget; there are no retries, and failures
// only ever surface as SyncFailed. The airframe keeps flying either
// way; the incident is already durable locally.
type Publisher struct {
	objects  *ObjectStore
	records  *RecordStore
	deviceID string
	budget   time.Duration
	obs      ports.Observability
}

func NewPublisher(objects *ObjectStore, records *RecordStore, deviceID string, connectTimeout, readTimeout time.Duration, obs ports.Observability) *Publisher {
	return &Publisher{
		objects:  objects,
		records:  records,
		deviceID: deviceID,
		budget:   connectTimeout + readTimeout,
		obs:      obs,
	}
}

// Publish never returns an error and never blocks past the budget.
func (p *Publisher) Publish(ctx context.Context, incident *domain.Incident, frame []byte) domain.SyncStatus {
	ctx, cancel := context.WithTimeout(ctx, p.budget)
	defer cancel()

	start := time.Now()

	key := "incidents/evidence_" + incident.Sample.CapturedAt.Format(objectKeyTimeLayout) + ".jpg"
	evidenceURL, err := p.objects.Put(ctx, key, frame, "image/jpeg")
	if err != nil {
		p.obs.RecordSyncFailure(incident, err)
		return domain.SyncFailed
	}

	if err := p.records.Insert(ctx, incident, evidenceURL, p.deviceID); err != nil {
		p.obs.RecordSyncFailure(incident, err)
		return domain.SyncFailed
	}

	p.obs.ObserveLatency("netra_publish_latency_seconds", time.Since(start).Seconds())
	p.obs.LogInfo("remote_sync_ok",
		ports.Field{Key: "incident_id", Value: incident.ID},
		ports.Field{Key: "evidence_url", Value: evidenceURL})
	return domain.SyncSynced
}

var _ ports.RemotePublisher = (*Publisher)(nil)
