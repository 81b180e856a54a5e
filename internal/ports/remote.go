package ports

import (
	"context"

	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
)

// RemotePublisher uploads an incident's evidence image and structured
// record to the remote stores. Publish is strictly time-bounded by the
// configured connect+read budget, performs zero retries, and never
// returns an error: any failure becomes SyncFailed. Repeated publishes
// of the same incident ID must be deduplicated remotely.
type RemotePublisher interface {
	Publish(ctx context.Context, incident *domain.Incident, frame []byte) domain.SyncStatus
}

// SyncJob is one pending remote publish.
type SyncJob struct {
	Incident *domain.Incident
	Frame    []byte
}

// SyncDispatcher hands incidents to the remote publisher without ever
// blocking the detection loop. Enqueue returns false when the job could
// not be queued even after dropping the oldest pending entry.
type SyncDispatcher interface {
	Enqueue(job SyncJob) bool
	Len() int
	Close(ctx context.Context) error
}
