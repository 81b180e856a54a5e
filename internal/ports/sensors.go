package ports

// ParticulateSensor reads PM2.5 mass concentration. Implementations must
// return 0 when the sensor is absent or the read fails; a read never
// propagates an error into the detection loop.
type ParticulateSensor interface {
	ReadParticulate() int
	Close() error
}

// GasSensor reads ambient temperature and gas resistance. Implementations
// must return the documented defaults (25.0 degC, 100000 ohm) when the
// sensor is absent or the read fails.
type GasSensor interface {
	ReadGas() (temperatureC float64, gasResistanceOhm float64)
	Close() error
}

// Defaults substituted when a gas sensor read fails.
const (
	DefaultTemperatureC     = 25.0
	DefaultGasResistanceOhm = 100000.0
)
