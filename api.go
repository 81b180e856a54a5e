package gagannetra

import (
	base "github.com/MahulePratik/gagan-netra-edge/pkg/gagannetra"
)

// Type aliases so consumers can import
// github.com/MahulePratik/gagan-netra-edge directly.
type (
	Config            = base.Config
	Policy            = base.Policy
	VisionConfig      = base.VisionConfig
	SensorsConfig     = base.SensorsConfig
	GPSConfig         = base.GPSConfig
	EvidenceConfig    = base.EvidenceConfig
	RemoteConfig      = base.RemoteConfig
	MetricsConfig     = base.MetricsConfig
	Runtime           = base.Runtime
	RuntimeOption     = base.RuntimeOption
	SensorSample      = base.SensorSample
	Position          = base.Position
	Incident          = base.Incident
	IncidentKind      = base.IncidentKind
	Severity          = base.Severity
	SyncStatus        = base.SyncStatus
	CycleResult       = base.CycleResult
	Detector          = base.Detector
	Observation       = base.Observation
	Detection         = base.Detection
	ParticulateSensor = base.ParticulateSensor
	GasSensor         = base.GasSensor
	PositionSource    = base.PositionSource
	EvidenceStore     = base.EvidenceStore
	SyncDispatcher    = base.SyncDispatcher
	SyncJob           = base.SyncJob
	RemotePublisher   = base.RemotePublisher
	Observability     = base.Observability
	Field             = base.Field
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithDetector(d Detector) RuntimeOption {
	return base.WithDetector(d)
}

func WithParticulateSensor(s ParticulateSensor) RuntimeOption {
	return base.WithParticulateSensor(s)
}

func WithGasSensor(s GasSensor) RuntimeOption {
	return base.WithGasSensor(s)
}

func WithPositionSource(p PositionSource) RuntimeOption {
	return base.WithPositionSource(p)
}

func WithEvidenceStore(s EvidenceStore) RuntimeOption {
	return base.WithEvidenceStore(s)
}

func WithSyncDispatcher(d SyncDispatcher) RuntimeOption {
	return base.WithSyncDispatcher(d)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}
