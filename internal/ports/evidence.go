package ports

import (
	"fmt"

	"github.com/MahulePratik/gagan-netra-edge/internal/domain"
)

// StorageError wraps a failed durable local write. It is fatal to the
// cycle that produced it but never to the detection loop.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("evidence storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// EvidenceStore durably records accepted incidents. Persist writes the
// frame snapshot, fills in the incident's EvidenceImageRef, and appends
// the structured record to the flight log. When Persist returns nil the
// incident must survive a process crash; any failure is a *StorageError.
type EvidenceStore interface {
	Persist(incident *domain.Incident, frame []byte) error
	Close() error
}
