package gagannetra

import (
	"github.com/MahulePratik/gagan-netra-edge/internal/app/config"
	"github.com/MahulePratik/gagan-netra-edge/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects
// can construct or modify it programmatically.
type Config = config.Config

type (
	// Policy controls fusion thresholds, cooldown, and sync backpressure.
	Policy = ports.Policy
	// VisionConfig points at the inference sidecar and paces the loop.
	VisionConfig = config.VisionConfig
	// SensorsConfig locates the environmental sensors.
	SensorsConfig = config.SensorsConfig
	// GPSConfig locates the GNSS receiver.
	GPSConfig = config.GPSConfig
	// EvidenceConfig configures durable local storage.
	EvidenceConfig = config.EvidenceConfig
	// RemoteConfig configures the best-effort remote sync path.
	RemoteConfig = config.RemoteConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
