// Package gagannetra is the embeddable facade over the incident
// detection runtime: camera observation, sensor fusion, durable local
// evidence, and best-effort remote sync.
package gagannetra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MahulePratik/gagan-netra-edge/internal/adapters/evidence"
	"github.com/MahulePratik/gagan-netra-edge/internal/adapters/observability"
	"github.com/MahulePratik/gagan-netra-edge/internal/adapters/position"
	"github.com/MahulePratik/gagan-netra-edge/internal/adapters/remote"
	"github.com/MahulePratik/gagan-netra-edge/internal/adapters/sensors"
	"github.com/MahulePratik/gagan-netra-edge/internal/adapters/syncq"
	"github.com/MahulePratik/gagan-netra-edge/internal/adapters/vision"
	"github.com/MahulePratik/gagan-netra-edge/internal/app/pipeline"
	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
	"github.com/MahulePratik/gagan-netra-edge/internal/ports"
)

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	detector      Detector
	particulate   ParticulateSensor
	gas           GasSensor
	position      PositionSource
	store         EvidenceStore
	dispatcher    SyncDispatcher
	observability Observability
}

// WithDetector injects a custom detector (onboard model, simulator, replay).
func WithDetector(d Detector) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.detector = d
	}
}

// WithParticulateSensor injects a custom PM2.5 reader.
func WithParticulateSensor(s ParticulateSensor) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.particulate = s
	}
}

// WithGasSensor injects a custom temperature/gas reader.
func WithGasSensor(s GasSensor) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.gas = s
	}
}

// WithPositionSource injects a custom GNSS source (flight controller
// telemetry, fixed site coordinates, simulators).
func WithPositionSource(p PositionSource) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.position = p
	}
}

// WithEvidenceStore injects a custom durable store for incident evidence.
func WithEvidenceStore(s EvidenceStore) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.store = s
	}
}

// WithSyncDispatcher injects a custom remote delivery path.
func WithSyncDispatcher(d SyncDispatcher) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.dispatcher = d
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// Runtime wires up the observe → fuse → persist → sync loop and exposes
// simple lifecycle hooks for embedding the detector inside any Go service.
type Runtime struct {
	cfg         *Config
	policy      ports.Policy
	obs         ports.Observability
	detector    ports.Detector
	particulate ports.ParticulateSensor
	gas         ports.GasSensor
	position    ports.PositionSource
	store       ports.EvidenceStore
	dispatcher  ports.SyncDispatcher
	pipe        *pipeline.Pipeline
	db          *sql.DB
	metricsSrv  *http.Server
	loopCancel  context.CancelFunc
	loopDoneCh  chan struct{}
}

// NewRuntime bootstraps the default adapters (HTTP vision sidecar,
// serial sensors, file evidence store, Postgres-backed sync) and lets
// RuntimeOption values override any of them.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs()
	}

	detector := overrides.detector
	if detector == nil {
		detector = vision.NewHTTPDetector(cfg.Vision.ServiceURL, cfg.Vision.Timeout)
	}

	var (
		particulate ports.ParticulateSensor
		err         error
	)
	if overrides.particulate != nil {
		particulate = overrides.particulate
	} else if cfg.Sensors.ParticulatePort != "" {
		particulate, err = sensors.NewPMS7003(cfg.Sensors.ParticulatePort)
		if err != nil {
			return nil, err
		}
	} else {
		particulate = sensors.NoParticulate{}
	}

	var gas ports.GasSensor
	if overrides.gas != nil {
		gas = overrides.gas
	} else if cfg.Sensors.GasDeviceDir != "" {
		gas = sensors.NewBME688(cfg.Sensors.GasDeviceDir)
	} else {
		gas = sensors.NoGas{}
	}

	var pos ports.PositionSource
	if overrides.position != nil {
		pos = overrides.position
	} else if cfg.GPS.Port != "" {
		pos, err = position.NewSerialSource(cfg.GPS.Port, cfg.GPS.Baud)
		if err != nil {
			return nil, err
		}
	} else {
		pos = staticPosition{}
	}

	store := overrides.store
	if store == nil {
		store, err = evidence.NewFileStore(cfg.Evidence.ImageDir, cfg.Evidence.LogPath)
		if err != nil {
			return nil, err
		}
	}

	var (
		db         *sql.DB
		dispatcher ports.SyncDispatcher
	)
	if overrides.dispatcher != nil {
		dispatcher = overrides.dispatcher
	} else if cfg.RemoteEnabled() {
		db, err = sql.Open("postgres", cfg.Remote.ConnString)
		if err != nil {
			return nil, err
		}
		objects := remote.NewObjectStore(cfg.Remote.ObjectEndpoint, cfg.Remote.ConnectTimeout, cfg.Remote.ReadTimeout)
		records := remote.NewRecordStore(db, cfg.Remote.Table)
		publisher := remote.NewPublisher(objects, records, cfg.Remote.DeviceID,
			cfg.Remote.ConnectTimeout, cfg.Remote.ReadTimeout, obs)
		dispatcher = syncq.NewDispatcher(cfg.Policy.MaxSyncQueueLen, publisher, obs)
	} else {
		dispatcher = noSync{}
	}

	return &Runtime{
		cfg:         cfg,
		policy:      cfg.Policy,
		obs:         obs,
		detector:    detector,
		particulate: particulate,
		gas:         gas,
		position:    pos,
		store:       store,
		dispatcher:  dispatcher,
		pipe:        pipeline.New(cfg.Policy, store, dispatcher, obs),
		db:          db,
	}, nil
}

// Start launches the detection loop and the observability stack. It
// returns immediately; call Run to block on a context instead.
func (r *Runtime) Start() error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.loopCancel = cancel
	r.loopDoneCh = make(chan struct{})
	go func() {
		r.detectionLoop(ctx)
		close(r.loopDoneCh)
	}()

	r.startMetrics()
	return nil
}

// Run starts the runtime and blocks until the provided context is
// cancelled. Upon cancellation it attempts a graceful shutdown.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.Shutdown(shutdownCtx)
}

// Shutdown stops the detection loop, drains the sync dispatcher, and
// closes every adapter. The evidence store closes last so anything the
// loop accepted stays durable.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.loopCancel != nil {
		r.loopCancel()
		<-r.loopDoneCh
	}

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if err := r.dispatcher.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := r.detector.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := r.particulate.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := r.gas.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := r.position.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := r.store.Close(); err != nil {
		errs = append(errs, err)
	}

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (r *Runtime) detectionLoop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Vision.CycleInterval)
	defer ticker.Stop()

	statsTicker := time.NewTicker(time.Minute)
	defer statsTicker.Stop()

	var cycles, incidents uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-statsTicker.C:
			r.obs.LogInfo("cycle_stats",
				ports.Field{Key: "cycles", Value: cycles},
				ports.Field{Key: "incidents", Value: incidents},
				ports.Field{Key: "sync_pending", Value: r.dispatcher.Len()})
		case <-ticker.C:
			cycles++
			if r.runCycle(ctx) {
				incidents++
			}
		}
	}
}

// runCycle performs one observe → fuse → persist → sync pass and reports
// whether it produced an incident. Failures are logged and absorbed; the
// loop never stops on a bad cycle.
func (r *Runtime) runCycle(ctx context.Context) bool {
	start := time.Now()

	observation, err := r.detector.Observe(ctx)
	if err != nil {
		r.obs.LogError("observe_failed", err)
		return false
	}

	tempC, gasOhm := r.gas.ReadGas()
	sample := domain.SensorSample{
		VisionConfidence: observation.MaxConfidence(ports.LabelFire),
		ParticulateUgM3:  r.particulate.ReadParticulate(),
		GasResistanceOhm: gasOhm,
		TemperatureC:     tempC,
		HumanPresent:     observation.Present(ports.LabelHuman),
		Position:         r.position.Snapshot(),
		CapturedAt:       time.Now().UTC(),
	}

	r.obs.SetGauge("netra_pm25_ugm3", float64(sample.ParticulateUgM3))
	r.obs.SetGauge("netra_gas_resistance_ohm", sample.GasResistanceOhm)
	r.obs.SetGauge("netra_temperature_celsius", sample.TemperatureC)
	r.obs.SetGauge("netra_sync_queue_length", float64(r.dispatcher.Len()))

	result, err := r.pipe.OnCycle(sample, observation.Frame)
	if err != nil {
		r.obs.LogError("cycle_failed", err)
	}
	r.obs.ObserveLatency("netra_cycle_latency_seconds", time.Since(start).Seconds())

	return result.Action == pipeline.ActionLogged
}

func (r *Runtime) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.metricsSrv = &http.Server{
		Addr:    r.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()
}

// staticPosition stands in when no GNSS receiver is configured.
type staticPosition struct{}

func (staticPosition) Snapshot() domain.Position { return domain.Position{} }
func (staticPosition) Close() error              { return nil }

// noSync rejects every job so incidents stay local-only when no remote
// store is configured.
type noSync struct{}

func (noSync) Enqueue(ports.SyncJob) bool  { return false }
func (noSync) Len() int                    { return 0 }
func (noSync) Close(context.Context) error { return nil }
