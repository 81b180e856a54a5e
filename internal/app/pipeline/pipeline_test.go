package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
	"github.com/MahulePratik/gagan-netra-edge/internal/ports"
)

func testPolicy() ports.Policy {
	return ports.Policy{
		FireConfidenceThreshold: 0.4,
		ParticulateThreshold:    35,
		BaselineTemperatureC:    25.0,
		Cooldown:                5 * time.Second,
		MaxSyncQueueLen:         8,
	}
}

func testSample(conf float64, pm25 int, at time.Time) domain.SensorSample {
	return domain.SensorSample{
		VisionConfidence: conf,
		ParticulateUgM3:  pm25,
		GasResistanceOhm: 70000,
		TemperatureC:     31.0,
		CapturedAt:       at,
	}
}

func TestOnCycleBelowThresholdsIsNoAction(t *testing.T) {
	store := &mockStore{}
	dispatcher := &mockDispatcher{}
	p := New(testPolicy(), store, dispatcher, &mockObs{})

	// confidence=0.2, pm25=40: vision never signalled anything.
	res, err := p.OnCycle(testSample(0.2, 40, time.Now()), []byte("jpeg"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Action != ActionNone {
		t.Fatalf("expected NoAction, got %v", res.Action)
	}
	if store.calls != 0 || dispatcher.calls != 0 {
		t.Fatalf("below-threshold cycle must not touch store or sync")
	}
}

func TestOnCycleThresholdsAreExclusive(t *testing.T) {
	store := &mockStore{}
	p := New(testPolicy(), store, &mockDispatcher{}, &mockObs{})

	// Exactly at the thresholds does not qualify.
	res, err := p.OnCycle(testSample(0.4, 36, time.Now()), nil)
	if err != nil || res.Action != ActionNone {
		t.Fatalf("confidence at threshold must be NoAction, got %v err=%v", res.Action, err)
	}
	res, err = p.OnCycle(testSample(0.41, 35, time.Now()), nil)
	if err != nil || res.Action != ActionNone {
		t.Fatalf("particulate at threshold must be NoAction, got %v err=%v", res.Action, err)
	}
	if store.calls != 0 {
		t.Fatalf("store must not be touched")
	}
}

func TestOnCycleLogsQualifyingIncident(t *testing.T) {
	store := &mockStore{}
	dispatcher := &mockDispatcher{accept: true}
	p := New(testPolicy(), store, dispatcher, &mockObs{})

	res, err := p.OnCycle(testSample(0.65, 120, time.Now()), []byte("jpeg"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Action != ActionLogged {
		t.Fatalf("expected Logged, got %v", res.Action)
	}
	if res.Incident == nil || res.Incident.ID == "" {
		t.Fatalf("logged result must carry an incident with an ID")
	}
	if res.Incident.Kind != domain.ActiveFire || res.Incident.Severity != domain.SeverityHigh {
		t.Fatalf("unexpected classification: %s %s", res.Incident.Kind, res.Incident.Severity)
	}
	if store.calls != 1 {
		t.Fatalf("expected one persist, got %d", store.calls)
	}
	if dispatcher.calls != 1 {
		t.Fatalf("expected one sync enqueue, got %d", dispatcher.calls)
	}
	if res.Sync != domain.SyncPending {
		t.Fatalf("freshly enqueued incident must report PENDING, got %s", res.Sync)
	}
}

func TestOnCyclePersistsBeforeSync(t *testing.T) {
	store := &mockStore{err: &ports.StorageError{Op: "append", Err: errors.New("disk full")}}
	dispatcher := &mockDispatcher{accept: true}
	p := New(testPolicy(), store, dispatcher, &mockObs{})

	res, err := p.OnCycle(testSample(0.65, 120, time.Now()), []byte("jpeg"))
	if err == nil {
		t.Fatalf("expected storage error to surface")
	}
	var se *ports.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StorageError, got %T", err)
	}
	if res.Action != ActionNone {
		t.Fatalf("failed persist must degrade to NoAction")
	}
	if dispatcher.calls != 0 {
		t.Fatalf("sync must not run when persist failed")
	}
}

func TestOnCycleCooldownSuppressesDuplicates(t *testing.T) {
	store := &mockStore{}
	dispatcher := &mockDispatcher{accept: true}
	p := New(testPolicy(), store, dispatcher, &mockObs{})

	t0 := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	first, err := p.OnCycle(testSample(0.65, 120, t0), nil)
	if err != nil || first.Action != ActionLogged {
		t.Fatalf("first candidate should be logged: %v %v", first.Action, err)
	}
	second, err := p.OnCycle(testSample(0.65, 120, t0.Add(2*time.Second)), nil)
	if err != nil || second.Action != ActionNone {
		t.Fatalf("candidate 2s later should be suppressed: %v %v", second.Action, err)
	}
	third, err := p.OnCycle(testSample(0.65, 120, t0.Add(6*time.Second)), nil)
	if err != nil || third.Action != ActionLogged {
		t.Fatalf("candidate 6s after first should be logged: %v %v", third.Action, err)
	}
	if store.calls != 2 {
		t.Fatalf("expected 2 persisted incidents, got %d", store.calls)
	}
}

func TestOnCycleRejectsInvalidSample(t *testing.T) {
	store := &mockStore{}
	p := New(testPolicy(), store, &mockDispatcher{}, &mockObs{})

	bad := testSample(1.5, 120, time.Now())
	_, err := p.OnCycle(bad, nil)
	var inv *domain.ErrInvalidSample
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidSample, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("invalid sample must never reach the store")
	}
}

func TestOnCycleFullSyncQueueMarksFailed(t *testing.T) {
	dispatcher := &mockDispatcher{accept: false}
	p := New(testPolicy(), &mockStore{}, dispatcher, &mockObs{})

	res, err := p.OnCycle(testSample(0.65, 120, time.Now()), nil)
	if err != nil || res.Action != ActionLogged {
		t.Fatalf("incident is still logged locally: %v %v", res.Action, err)
	}
	if res.Sync != domain.SyncFailed {
		t.Fatalf("unqueueable sync must report FAILED, got %s", res.Sync)
	}
}

type mockStore struct {
	calls int
	err   error
}

func (m *mockStore) Persist(incident *domain.Incident, frame []byte) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	incident.EvidenceImageRef = "evidence/evid_test.jpg"
	return nil
}

func (m *mockStore) Close() error { return nil }

type mockDispatcher struct {
	calls  int
	accept bool
	jobs   []ports.SyncJob
}

func (m *mockDispatcher) Enqueue(job ports.SyncJob) bool {
	m.calls++
	if m.accept {
		m.jobs = append(m.jobs, job)
	}
	return m.accept
}

func (m *mockDispatcher) Len() int                    { return len(m.jobs) }
func (m *mockDispatcher) Close(context.Context) error { return nil }

type mockObs struct {
	errors []error
}

func (m *mockObs) LogInfo(string, ...ports.Field) {}
func (m *mockObs) LogError(_ string, err error, _ ...ports.Field) {
	m.errors = append(m.errors, err)
}
func (m *mockObs) LogCritical(_ string, err error, _ ...ports.Field) {
	m.errors = append(m.errors, err)
}
func (m *mockObs) IncCounter(string, float64)                {}
func (m *mockObs) ObserveLatency(string, float64)            {}
func (m *mockObs) SetGauge(string, float64)                  {}
func (m *mockObs) RecordSyncFailure(*domain.Incident, error) {}
