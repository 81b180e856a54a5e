package observability

import (
	"fmt"
	"log"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
	"github.com/MahulePratik/gagan-netra-edge/internal/ports"
)

type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs() *PromObs {
	incidents := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netra_incidents_total",
		Help: "Incidents persisted to local evidence storage.",
	})
	suppressed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netra_cooldown_suppressed_total",
		Help: "Classifications discarded inside the cooldown window.",
	})
	storageErrs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netra_storage_errors_total",
		Help: "Evidence persistence failures.",
	})
	syncDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netra_sync_dropped_total",
		Help: "Incidents evicted from the sync queue under backpressure.",
	})
	syncSynced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netra_sync_synced_total",
		Help: "Incidents fully uploaded to the remote store.",
	})
	syncFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netra_sync_failed_total",
		Help: "Incident uploads that failed within the network budget.",
	})
	queueGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netra_sync_queue_length",
		Help: "Incidents currently waiting for remote upload.",
	})
	pmGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netra_pm25_ugm3",
		Help: "Latest PM2.5 reading.",
	})
	gasGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netra_gas_resistance_ohm",
		Help: "Latest gas resistance reading.",
	})
	tempGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netra_temperature_celsius",
		Help: "Latest ambient temperature reading.",
	})
	persistLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "netra_persist_latency_seconds",
		Help:    "Latency of the durable evidence write.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
	publishLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "netra_publish_latency_seconds",
		Help:    "Latency of a successful remote upload.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	})
	cycleLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "netra_cycle_latency_seconds",
		Help:    "End-to-end latency of one detection cycle.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	prometheus.MustRegister(incidents, suppressed, storageErrs, syncDropped,
		syncSynced, syncFailed, queueGauge, pmGauge, gasGauge, tempGauge,
		persistLatency, publishLatency, cycleLatency)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			"netra_incidents_total":           incidents,
			"netra_cooldown_suppressed_total": suppressed,
			"netra_storage_errors_total":      storageErrs,
			"netra_sync_dropped_total":        syncDropped,
			"netra_sync_synced_total":         syncSynced,
			"netra_sync_failed_total":         syncFailed,
		},
		gauges: map[string]prometheus.Gauge{
			"netra_sync_queue_length":   queueGauge,
			"netra_pm25_ugm3":           pmGauge,
			"netra_gas_resistance_ohm":  gasGauge,
			"netra_temperature_celsius": tempGauge,
		},
		histos: map[string]prometheus.Observer{
			"netra_persist_latency_seconds": persistLatency,
			"netra_publish_latency_seconds": publishLatency,
			"netra_cycle_latency_seconds":   cycleLatency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	log.Printf("INFO: %s%s", msg, renderFields(fields))
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v%s", msg, err, renderFields(fields))
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("CRITICAL: %s: %v%s", msg, err, renderFields(fields))
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) RecordSyncFailure(inc *domain.Incident, err error) {
	p.IncCounter("netra_sync_failed_total", 1)
	if err != nil && inc != nil {
		log.Printf("SYNC FAILED incident=%s err=%v", inc.ID, err)
	}
}

func renderFields(fields []ports.Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}
