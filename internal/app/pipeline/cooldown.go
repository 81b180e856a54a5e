package pipeline

import "time"

// CooldownGate suppresses duplicate incidents from sustained detection.
// It accepts a candidate iff no prior candidate was accepted within the
// cooldown interval, measured on the samples' capture timestamps.
//
// The gate's single mutable field lives for the process lifetime and is
// only ever touched from the detection loop goroutine, so it carries no
// lock.
type CooldownGate struct {
	interval     time.Duration
	lastAccepted time.Time
}

func NewCooldownGate(interval time.Duration) *CooldownGate {
	return &CooldownGate{interval: interval}
}

// ShouldAccept reports whether a candidate captured at now may be
// emitted, and on acceptance records now as the new anchor.
func (g *CooldownGate) ShouldAccept(now time.Time) bool {
	if !g.lastAccepted.IsZero() && now.Sub(g.lastAccepted) <= g.interval {
		return false
	}
	g.lastAccepted = now
	return true
}
