package domain

import (
	"fmt"
	"time"
)

// Position is the latest known GPS fix. A zero Position means "no fix".
type Position struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Altitude   float64 `json:"altitude"`
	Satellites int     `json:"satellites"`
	FixQuality int     `json:"fix_quality"`
}

// HasFix reports whether the position is a usable fix. Quality 2 (DGPS)
// or better is required before coordinates are trusted.
func (p Position) HasFix() bool {
	return p.FixQuality >= 2
}

// SensorSample is one detection cycle's fused reading bundle. It is
// assembled once per cycle and never mutated afterwards.
type SensorSample struct {
	VisionConfidence float64   `json:"fire_confidence"`
	ParticulateUgM3  int       `json:"pm25"`
	GasResistanceOhm float64   `json:"gas_resistance"`
	TemperatureC     float64   `json:"temperature"`
	HumanPresent     bool      `json:"human_present"`
	Position         Position  `json:"position"`
	CapturedAt       time.Time `json:"captured_at"`
}

// ErrInvalidSample marks a caller contract violation: a sample with
// out-of-range fields must never reach the classifier.
type ErrInvalidSample struct {
	Field  string
	Reason string
}

func (e *ErrInvalidSample) Error() string {
	return fmt.Sprintf("invalid sensor sample: %s %s", e.Field, e.Reason)
}

// Validate checks the numeric ranges the classifier assumes. The pipeline
// calls this before classification; the classifier itself never does.
func (s SensorSample) Validate() error {
	if s.VisionConfidence < 0 || s.VisionConfidence > 1 {
		return &ErrInvalidSample{Field: "fire_confidence", Reason: "outside [0,1]"}
	}
	if s.ParticulateUgM3 < 0 {
		return &ErrInvalidSample{Field: "pm25", Reason: "negative"}
	}
	if s.GasResistanceOhm < 0 {
		return &ErrInvalidSample{Field: "gas_resistance", Reason: "negative"}
	}
	if s.CapturedAt.IsZero() {
		return &ErrInvalidSample{Field: "captured_at", Reason: "unset"}
	}
	return nil
}
