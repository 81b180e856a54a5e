package gagannetra

import (
	"github.com/MahulePratik/gagan-netra-edge/internal/app/pipeline"
	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
	"github.com/MahulePratik/gagan-netra-edge/internal/ports"
)

// SensorSample is one fused reading of everything the airframe knows in
// a single detection cycle.
type SensorSample = domain.SensorSample

// Position is a GNSS fix attached to each sample.
type Position = domain.Position

// Incident is a confirmed, durably logged detection.
type Incident = domain.Incident

// IncidentKind is the coarse classification of an incident.
type IncidentKind = domain.IncidentKind

// Severity grades an incident for dispatch priority.
type Severity = domain.Severity

// SyncStatus tracks remote delivery of an incident.
type SyncStatus = domain.SyncStatus

// CycleResult is the outcome of one detection cycle.
type CycleResult = pipeline.Result

// Detector produces camera frames annotated with detections.
type Detector = ports.Detector

// Observation is one annotated camera frame.
type Observation = ports.Observation

// Detection is a single labelled detection within an observation.
type Detection = ports.Detection

// ParticulateSensor reads PM2.5 mass concentration.
type ParticulateSensor = ports.ParticulateSensor

// GasSensor reads ambient temperature and gas resistance.
type GasSensor = ports.GasSensor

// PositionSource provides the latest GNSS fix without blocking.
type PositionSource = ports.PositionSource

// EvidenceStore persists incident evidence durably before anything is
// reported upstream.
type EvidenceStore = ports.EvidenceStore

// SyncDispatcher queues incidents for best-effort remote delivery.
type SyncDispatcher = ports.SyncDispatcher

// SyncJob is one queued remote delivery.
type SyncJob = ports.SyncJob

// RemotePublisher uploads a single incident within a strict time budget.
type RemotePublisher = ports.RemotePublisher

// Observability emits metrics and logs for the detection loop.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field
