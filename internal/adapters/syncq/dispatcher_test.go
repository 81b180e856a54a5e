package syncq

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
	"github.com/MahulePratik/gagan-netra-edge/internal/ports"
)

func job(id string) ports.SyncJob {
	return ports.SyncJob{
		Incident: &domain.Incident{ID: id},
		Frame:    []byte("jpeg"),
	}
}

func TestDispatcherPublishesInOrder(t *testing.T) {
	pub := &stubPublisher{status: domain.SyncSynced}
	d := NewDispatcher(8, pub, &nopObs{})
	defer d.Close(context.Background())

	j1, j2 := job("one"), job("two")
	if !d.Enqueue(j1) || !d.Enqueue(j2) {
		t.Fatalf("enqueue within capacity must succeed")
	}

	waitFor(t, func() bool { return pub.count() == 2 })

	if got := pub.ids(); got[0] != "one" || got[1] != "two" {
		t.Fatalf("expected FIFO publish order, got %v", got)
	}
	if j1.Incident.SyncStatus() != domain.SyncSynced {
		t.Fatalf("published incident must be marked SYNCED, got %s", j1.Incident.SyncStatus())
	}
}

func TestDispatcherDropsOldestWhenFull(t *testing.T) {
	pub := &stubPublisher{status: domain.SyncSynced, gate: make(chan struct{})}
	d := NewDispatcher(2, pub, &nopObs{})
	defer d.Close(context.Background())

	// Stall the worker on the first job so the queue actually fills.
	first := job("first")
	d.Enqueue(first)
	waitFor(t, func() bool { return pub.count() == 1 })

	oldest := job("oldest")
	d.Enqueue(oldest)
	d.Enqueue(job("mid"))
	if !d.Enqueue(job("new")) {
		t.Fatalf("enqueue into a full queue must still succeed by shedding")
	}

	if oldest.Incident.SyncStatus() != domain.SyncFailed {
		t.Fatalf("evicted incident must be marked FAILED, got %s", oldest.Incident.SyncStatus())
	}
	if d.Len() != 2 {
		t.Fatalf("queue should hold 2 jobs, got %d", d.Len())
	}

	close(pub.gate)
	waitFor(t, func() bool { return pub.count() == 3 })

	ids := pub.ids()
	if ids[1] != "mid" || ids[2] != "new" {
		t.Fatalf("expected oldest to be shed, published %v", ids)
	}
}

func TestDispatcherMarksFailures(t *testing.T) {
	pub := &stubPublisher{status: domain.SyncFailed}
	d := NewDispatcher(4, pub, &nopObs{})
	defer d.Close(context.Background())

	j := job("doomed")
	d.Enqueue(j)
	waitFor(t, func() bool { return j.Incident.SyncStatus() == domain.SyncFailed })
}

func TestDispatcherCloseAbandonsInFlight(t *testing.T) {
	pub := &stubPublisher{status: domain.SyncSynced, honorCtx: true, gate: make(chan struct{})}
	d := NewDispatcher(4, pub, &nopObs{})

	d.Enqueue(job("stuck"))
	waitFor(t, func() bool { return pub.count() == 1 })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("close should finish once the in-flight publish is cancelled: %v", err)
	}
}

func TestDispatcherZeroCapacityRejects(t *testing.T) {
	d := NewDispatcher(0, &stubPublisher{}, &nopObs{})
	defer d.Close(context.Background())

	if d.Enqueue(job("x")) {
		t.Fatalf("zero-capacity dispatcher must reject jobs")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached within 2s")
}

type stubPublisher struct {
	mu        sync.Mutex
	published []string
	status    domain.SyncStatus
	gate      chan struct{}
	honorCtx  bool
}

func (s *stubPublisher) Publish(ctx context.Context, incident *domain.Incident, frame []byte) domain.SyncStatus {
	s.mu.Lock()
	s.published = append(s.published, incident.ID)
	s.mu.Unlock()

	if s.gate != nil {
		if s.honorCtx {
			select {
			case <-s.gate:
			case <-ctx.Done():
				return domain.SyncFailed
			}
		} else {
			<-s.gate
		}
	}
	return s.status
}

func (s *stubPublisher) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.published)
}

func (s *stubPublisher) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.published))
	copy(out, s.published)
	return out
}

type nopObs struct{}

func (nopObs) LogInfo(string, ...ports.Field)            {}
func (nopObs) LogError(string, error, ...ports.Field)    {}
func (nopObs) LogCritical(string, error, ...ports.Field) {}
func (nopObs) IncCounter(string, float64)                {}
func (nopObs) ObserveLatency(string, float64)            {}
func (nopObs) SetGauge(string, float64)                  {}
func (nopObs) RecordSyncFailure(*domain.Incident, error) {}
