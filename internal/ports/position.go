package ports

import "github.com/MahulePratik/gagan-netra-edge/internal/domain"

// PositionSource exposes the latest known GPS snapshot. Snapshot must be
// safe to call concurrently with the background updater and must never
// block on hardware; staleness up to the poll interval is accepted.
type PositionSource interface {
	Snapshot() domain.Position
	Close() error
}
