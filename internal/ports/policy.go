package ports

import "time"

// Policy carries the tunable decision and backpressure thresholds of the
// detection pipeline.
type Policy struct {
	// FireConfidenceThreshold is the minimum vision confidence before
	// sensor fusion is even attempted.
	FireConfidenceThreshold float64 `yaml:"fire_confidence_threshold"`
	// ParticulateThreshold is the minimum PM2.5 (ug/m3) before fusion is
	// attempted.
	ParticulateThreshold int `yaml:"particulate_threshold"`
	// BaselineTemperatureC anchors the temperature-rise calculation.
	BaselineTemperatureC float64 `yaml:"baseline_temperature"`
	// Cooldown is the minimum spacing between accepted incidents.
	Cooldown time.Duration `yaml:"cooldown"`

	// MaxSyncQueueLen bounds the pending remote publish queue. A full
	// queue drops the oldest pending job rather than blocking the loop.
	MaxSyncQueueLen int `yaml:"max_sync_queue_len"`
}
