package ports

import "context"

// Detection is one labelled box reported by the vision collaborator.
// Box geometry is deliberately absent: the pipeline consumes only labels
// and confidences.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Observation is the per-cycle output of the vision collaborator: the
// captured frame (JPEG bytes) plus every detection found in it.
type Observation struct {
	Frame      []byte
	Detections []Detection
}

// MaxConfidence returns the highest confidence among detections carrying
// the given label, 0 if none.
func (o *Observation) MaxConfidence(label string) float64 {
	var max float64
	for _, d := range o.Detections {
		if d.Label == label && d.Confidence > max {
			max = d.Confidence
		}
	}
	return max
}

// Present reports whether any detection carries the given label.
func (o *Observation) Present(label string) bool {
	for _, d := range o.Detections {
		if d.Label == label {
			return true
		}
	}
	return false
}

// Labels used by the fire/human/object detectors.
const (
	LabelFire   = "fire"
	LabelHuman  = "human"
	LabelObject = "object"
)

// Detector is the narrow interface to the camera + inference collaborator.
type Detector interface {
	Observe(ctx context.Context) (*Observation, error)
	Close() error
}
