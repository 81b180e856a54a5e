// Package vision talks to the onboard inference sidecar. The sidecar
// owns the camera and the detection model; we only pull its latest
// annotated frame over loopback HTTP.
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MahulePratik/gagan-netra-edge/internal/ports"
)

// HTTPDetector fetches observations from the inference sidecar.
type HTTPDetector struct {
	serviceURL string
	client     *http.Client
}

// observeResponse is the sidecar's wire format. The frame is the JPEG
// the detections were computed on, base64 encoded.
type observeResponse struct {
	Frame      string `json:"frame"`
	Detections []struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"detections"`
}

// NewHTTPDetector creates a detector client for the given sidecar URL.
func NewHTTPDetector(serviceURL string, timeout time.Duration) *HTTPDetector {
	if serviceURL == "" {
		serviceURL = "http://localhost:5001"
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HTTPDetector{
		serviceURL: serviceURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// HealthCheck verifies the sidecar is up before the detection loop starts.
func (d *HTTPDetector) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.serviceURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("vision sidecar not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vision sidecar unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// Observe pulls the latest frame and its detections.
func (d *HTTPDetector) Observe(ctx context.Context) (*ports.Observation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.serviceURL+"/observe", nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("observe request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vision sidecar returned status %d: %s", resp.StatusCode, string(body))
	}

	var wire observeResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode observation: %w", err)
	}
	frame, err := base64.StdEncoding.DecodeString(wire.Frame)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("received empty frame")
	}

	obs := &ports.Observation{Frame: frame}
	for _, det := range wire.Detections {
		obs.Detections = append(obs.Detections, ports.Detection{
			Label:      det.Label,
			Confidence: det.Confidence,
		})
	}
	return obs, nil
}

func (d *HTTPDetector) Close() error {
	d.client.CloseIdleConnections()
	return nil
}
