package domain

import (
	"fmt"
	"sync/atomic"
)

// IncidentKind is the coarse fire/smoke category derived by the classifier.
type IncidentKind string

const (
	ActiveFire IncidentKind = "ACTIVE_FIRE"
	HeavySmoke IncidentKind = "HEAVY_SMOKE"
	SmokeOnly  IncidentKind = "SMOKE_ONLY"
)

// Severity is the operator-facing urgency ranking, totally ordered from
// SeverityLow to SeverityCritical.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// SyncStatus tracks the remote publish outcome for an incident.
type SyncStatus int32

const (
	SyncPending SyncStatus = iota
	SyncSynced
	SyncFailed
)

func (s SyncStatus) String() string {
	switch s {
	case SyncPending:
		return "PENDING"
	case SyncSynced:
		return "SYNCED"
	case SyncFailed:
		return "FAILED"
	}
	return fmt.Sprintf("SyncStatus(%d)", int32(s))
}

// Incident is one accepted, persisted fire/smoke classification event.
// Once persisted it is immutable except for the sync status, which is
// owned by the remote sync dispatcher and stored atomically because the
// dispatcher runs off the detection loop goroutine.
type Incident struct {
	ID               string
	Sample           SensorSample
	Kind             IncidentKind
	SourceLabel      string
	Severity         Severity
	EvidenceImageRef string

	syncStatus atomic.Int32
}

// CombinedLabel is the "KIND: Source Label" string persisted in the
// evidence log and the remote record.
func (i *Incident) CombinedLabel() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.SourceLabel)
}

// SyncStatus returns the last recorded remote sync outcome.
func (i *Incident) SyncStatus() SyncStatus {
	return SyncStatus(i.syncStatus.Load())
}

// SetSyncStatus records the remote publish outcome. Only the sync
// dispatcher may call this.
func (i *Incident) SetSyncStatus(s SyncStatus) {
	i.syncStatus.Store(int32(s))
}
