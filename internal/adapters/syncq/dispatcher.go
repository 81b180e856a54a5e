// Package syncq decouples the detection loop from remote publishing: a
// bounded FIFO of pending publishes drained by a single worker. A full
// queue sheds the OLDEST pending job so the producer never blocks and
// the freshest evidence wins.
package syncq

import (
	"context"
	"sync"
	"time"

	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
	"github.com/MahulePratik/gagan-netra-edge/internal/ports"
)

const defaultIdleSleep = 5 * time.Millisecond

type Dispatcher struct {
	mu   sync.Mutex
	jobs []ports.SyncJob
	cap  int

	publisher ports.RemotePublisher
	obs       ports.Observability

	rootCtx  context.Context
	stop     context.CancelFunc
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewDispatcher starts the worker goroutine immediately.
func NewDispatcher(capacity int, publisher ports.RemotePublisher, obs ports.Observability) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		jobs:      make([]ports.SyncJob, 0, capacity),
		cap:       capacity,
		publisher: publisher,
		obs:       obs,
		rootCtx:   ctx,
		stop:      cancel,
		doneCh:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Enqueue adds a pending publish, evicting the oldest entry when the
// queue is full. The evicted incident is marked FAILED; it stays durable
// in the local evidence log either way.
func (d *Dispatcher) Enqueue(job ports.SyncJob) bool {
	if d.cap <= 0 {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.jobs) >= d.cap {
		evicted := d.jobs[0]
		d.jobs = append(d.jobs[:0], d.jobs[1:]...)
		evicted.Incident.SetSyncStatus(domain.SyncFailed)
		d.obs.IncCounter("netra_sync_dropped_total", 1)
		d.obs.LogInfo("sync_queue_full_drop",
			ports.Field{Key: "incident_id", Value: evicted.Incident.ID})
	}
	d.jobs = append(d.jobs, job)
	d.obs.SetGauge("netra_sync_queue_length", float64(len(d.jobs)))
	return true
}

func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.jobs)
}

func (d *Dispatcher) run() {
	defer close(d.doneCh)

	for {
		select {
		case <-d.rootCtx.Done():
			return
		default:
		}

		job, ok := d.dequeue()
		if !ok {
			time.Sleep(defaultIdleSleep)
			continue
		}

		// Failure accounting happens inside the publisher; the dispatcher
		// only records the outcome on the incident.
		status := d.publisher.Publish(d.rootCtx, job.Incident, job.Frame)
		job.Incident.SetSyncStatus(status)
		if status == domain.SyncSynced {
			d.obs.IncCounter("netra_sync_synced_total", 1)
		}
	}
}

func (d *Dispatcher) dequeue() (ports.SyncJob, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.jobs) == 0 {
		return ports.SyncJob{}, false
	}
	job := d.jobs[0]
	d.jobs = append(d.jobs[:0], d.jobs[1:]...)
	d.obs.SetGauge("netra_sync_queue_length", float64(len(d.jobs)))
	return job, true
}

// Close cancels the worker; an in-flight publish is abandoned via its
// context rather than awaited past the caller's deadline. Pending jobs
// are dropped; their incidents are already durable locally.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.stopOnce.Do(d.stop)

	select {
	case <-d.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ ports.SyncDispatcher = (*Dispatcher)(nil)
