// Package pipeline composes the classifier, cooldown gate, evidence
// store, and remote sync dispatcher into the per-cycle decision path of
// the detection loop.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
	"github.com/MahulePratik/gagan-netra-edge/internal/fusion"
	"github.com/MahulePratik/gagan-netra-edge/internal/ports"
)

// Action says what a cycle produced.
type Action int

const (
	// ActionNone: thresholds not met, duplicate suppressed, or the cycle
	// failed before the incident became durable.
	ActionNone Action = iota
	// ActionLogged: an incident was classified, accepted, and durably
	// persisted; remote sync has been handed off.
	ActionLogged
)

// Result is the outcome of one detection cycle.
type Result struct {
	Action   Action
	Incident *domain.Incident
	Sync     domain.SyncStatus
}

// Pipeline drives sample → classifier → gate → store → sync for every
// detection cycle. All methods run on the single detection loop
// goroutine.
type Pipeline struct {
	policy ports.Policy
	gate   *CooldownGate
	store  ports.EvidenceStore
	sync   ports.SyncDispatcher
	obs    ports.Observability
}

func New(policy ports.Policy, store ports.EvidenceStore, sync ports.SyncDispatcher, obs ports.Observability) *Pipeline {
	return &Pipeline{
		policy: policy,
		gate:   NewCooldownGate(policy.Cooldown),
		store:  store,
		sync:   sync,
		obs:    obs,
	}
}

// OnCycle evaluates one cycle's sample and frame. Sensor fusion is only
// attempted once vision has already signalled something worth checking:
// below-threshold cycles return ActionNone without classifying.
//
// A storage failure is fatal to this one cycle's event, never to the
// loop: the error is returned alongside ActionNone and the caller
// continues.
func (p *Pipeline) OnCycle(sample domain.SensorSample, frame []byte) (Result, error) {
	if err := sample.Validate(); err != nil {
		return Result{Action: ActionNone}, err
	}

	if sample.VisionConfidence <= p.policy.FireConfidenceThreshold ||
		sample.ParticulateUgM3 <= p.policy.ParticulateThreshold {
		return Result{Action: ActionNone}, nil
	}

	verdict := fusion.Classify(sample, p.policy.BaselineTemperatureC)

	if !p.gate.ShouldAccept(sample.CapturedAt) {
		p.obs.IncCounter("netra_cooldown_suppressed_total", 1)
		return Result{Action: ActionNone}, nil
	}

	incident := &domain.Incident{
		ID:          uuid.NewString(),
		Sample:      sample,
		Kind:        verdict.Kind,
		SourceLabel: verdict.SourceLabel,
		Severity:    verdict.Severity,
	}

	start := time.Now()
	if err := p.store.Persist(incident, frame); err != nil {
		p.obs.LogCritical("evidence_persist_failed", err,
			ports.Field{Key: "incident_id", Value: incident.ID})
		p.obs.IncCounter("netra_storage_errors_total", 1)
		return Result{Action: ActionNone}, err
	}
	p.obs.ObserveLatency("netra_persist_latency_seconds", time.Since(start).Seconds())

	// Durability boundary passed; remote delivery is best-effort from
	// here and must not block the loop.
	if !p.sync.Enqueue(ports.SyncJob{Incident: incident, Frame: frame}) {
		incident.SetSyncStatus(domain.SyncFailed)
	}

	p.obs.IncCounter("netra_incidents_total", 1)
	p.obs.LogInfo("incident_logged",
		ports.Field{Key: "incident_id", Value: incident.ID},
		ports.Field{Key: "source", Value: incident.CombinedLabel()},
		ports.Field{Key: "severity", Value: incident.Severity.String()})

	return Result{
		Action:   ActionLogged,
		Incident: incident,
		Sync:     incident.SyncStatus(),
	}, nil
}
