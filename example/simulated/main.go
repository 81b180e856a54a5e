// Simulated shows how to embed the runtime without any hardware: a
// scripted detector and fixed sensor readings drive the full pipeline
// into a local evidence directory.
package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/MahulePratik/gagan-netra-edge/pkg/gagannetra"
)

type scriptedDetector struct{}

func (scriptedDetector) Observe(context.Context) (*gagannetra.Observation, error) {
	obs := &gagannetra.Observation{Frame: []byte{0xFF, 0xD8, 0xFF}}
	// Roughly one in ten frames looks like fire.
	if rand.Intn(10) == 0 {
		obs.Detections = append(obs.Detections, gagannetra.Detection{
			Label:      "fire",
			Confidence: 0.5 + rand.Float64()/2,
		})
	}
	return obs, nil
}

func (scriptedDetector) Close() error { return nil }

type fixedParticulate struct{}

func (fixedParticulate) ReadParticulate() int { return 120 }
func (fixedParticulate) Close() error         { return nil }

type fixedGas struct{}

func (fixedGas) ReadGas() (float64, float64) { return 31.0, 70000 }
func (fixedGas) Close() error                { return nil }

type fixedPosition struct{}

func (fixedPosition) Snapshot() gagannetra.Position {
	return gagannetra.Position{Latitude: 18.5652767, Longitude: 73.895, Altitude: 560.2, Satellites: 11, FixQuality: 2}
}
func (fixedPosition) Close() error { return nil }

func main() {
	cfg := &gagannetra.Config{
		Policy: gagannetra.Policy{
			FireConfidenceThreshold: 0.4,
			ParticulateThreshold:    35,
			BaselineTemperatureC:    25.0,
			Cooldown:                5 * time.Second,
			MaxSyncQueueLen:         8,
		},
		Vision:   gagannetra.VisionConfig{CycleInterval: 100 * time.Millisecond},
		Evidence: gagannetra.EvidenceConfig{ImageDir: "./sim-evidence", LogPath: "./sim-incident_log.csv"},
		Metrics:  gagannetra.MetricsConfig{Addr: ":9100"},
	}

	rt, err := gagannetra.NewRuntime(cfg,
		gagannetra.WithDetector(scriptedDetector{}),
		gagannetra.WithParticulateSensor(fixedParticulate{}),
		gagannetra.WithGasSensor(fixedGas{}),
		gagannetra.WithPositionSource(fixedPosition{}),
	)
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := rt.Run(ctx); err != nil {
		log.Fatalf("runtime exited: %v", err)
	}
	log.Println("simulation complete; see ./sim-incident_log.csv")
}
