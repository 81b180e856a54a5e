package sensors

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MahulePratik/gagan-netra-edge/internal/ports"
)

// BME688 reads temperature and gas resistance through the Linux iio
// sysfs interface, e.g. /sys/bus/iio/devices/iio:device0. Failed reads
// fall back to the neutral defaults so the fusion rules stay sane.
type BME688 struct {
	dir string
}

func NewBME688(deviceDir string) *BME688 {
	return &BME688{dir: deviceDir}
}

// ReadGas returns the current temperature in degrees Celsius and the
// heater plate gas resistance in ohms.
func (b *BME688) ReadGas() (float64, float64) {
	tempC := ports.DefaultTemperatureC
	if v, err := b.readValue("in_temp_input"); err == nil {
		// iio reports millidegrees.
		tempC = v / 1000
	}
	gasOhm := ports.DefaultGasResistanceOhm
	if v, err := b.readValue("in_resistance_input"); err == nil {
		gasOhm = v
	}
	return tempC, gasOhm
}

func (b *BME688) readValue(name string) (float64, error) {
	raw, err := os.ReadFile(filepath.Join(b.dir, name))
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
}

func (b *BME688) Close() error {
	return nil
}
