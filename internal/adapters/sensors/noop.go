package sensors

import "github.com/MahulePratik/gagan-netra-edge/internal/ports"

// NoParticulate stands in when no dust sensor is fitted.
type NoParticulate struct{}

func (NoParticulate) ReadParticulate() int { return 0 }
func (NoParticulate) Close() error         { return nil }

// NoGas stands in when no gas sensor is fitted and always reports the
// neutral defaults.
type NoGas struct{}

func (NoGas) ReadGas() (float64, float64) {
	return ports.DefaultTemperatureC, ports.DefaultGasResistanceOhm
}

func (NoGas) Close() error { return nil }
