package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MahulePratik/gagan-netra-edge/internal/ports"
)

type Config struct {
	Policy   ports.Policy   `yaml:"policy"`
	Vision   VisionConfig   `yaml:"vision"`
	Sensors  SensorsConfig  `yaml:"sensors"`
	GPS      GPSConfig      `yaml:"gps"`
	Evidence EvidenceConfig `yaml:"evidence"`
	Remote   RemoteConfig   `yaml:"remote"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type VisionConfig struct {
	ServiceURL string        `yaml:"service_url"`
	Timeout    time.Duration `yaml:"timeout"`
	// CycleInterval paces the detection loop. Roughly one camera frame.
	CycleInterval time.Duration `yaml:"cycle_interval"`
}

type SensorsConfig struct {
	// ParticulatePort is the serial device of the dust sensor. Empty
	// disables it and the pipeline reads 0 ug/m3.
	ParticulatePort string `yaml:"particulate_port"`
	// GasDeviceDir is the iio sysfs directory of the gas sensor. Empty
	// disables it and the pipeline reads the neutral defaults.
	GasDeviceDir string `yaml:"gas_device_dir"`
}

type GPSConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

type EvidenceConfig struct {
	ImageDir string `yaml:"image_dir"`
	LogPath  string `yaml:"log_path"`
}

type RemoteConfig struct {
	// ConnString is the Postgres DSN of the incident record store. Empty
	// disables remote sync entirely.
	ConnString     string        `yaml:"conn_string"`
	Table          string        `yaml:"table"`
	ObjectEndpoint string        `yaml:"object_endpoint"`
	DeviceID       string        `yaml:"device_id"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Policy.FireConfidenceThreshold == 0 {
		c.Policy.FireConfidenceThreshold = 0.4
	}
	if c.Policy.ParticulateThreshold == 0 {
		c.Policy.ParticulateThreshold = 35
	}
	if c.Policy.BaselineTemperatureC == 0 {
		c.Policy.BaselineTemperatureC = 25.0
	}
	if c.Policy.Cooldown == 0 {
		c.Policy.Cooldown = 5 * time.Second
	}
	if c.Policy.MaxSyncQueueLen == 0 {
		c.Policy.MaxSyncQueueLen = 64
	}
	if c.Vision.ServiceURL == "" {
		c.Vision.ServiceURL = "http://localhost:5001"
	}
	if c.Vision.Timeout == 0 {
		c.Vision.Timeout = 2 * time.Second
	}
	if c.Vision.CycleInterval == 0 {
		c.Vision.CycleInterval = 33 * time.Millisecond
	}
	if c.GPS.Baud == 0 {
		c.GPS.Baud = 9600
	}
	if c.Evidence.ImageDir == "" {
		c.Evidence.ImageDir = "./data/evidence"
	}
	if c.Evidence.LogPath == "" {
		c.Evidence.LogPath = "./data/incident_log.csv"
	}
	if c.Remote.Table == "" {
		c.Remote.Table = "incidents"
	}
	if c.Remote.DeviceID == "" {
		c.Remote.DeviceID = "GAGAN_NETRA_01"
	}
	if c.Remote.ConnectTimeout == 0 {
		c.Remote.ConnectTimeout = time.Second
	}
	if c.Remote.ReadTimeout == 0 {
		c.Remote.ReadTimeout = time.Second
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
}

func (c *Config) validate() error {
	if c.Policy.FireConfidenceThreshold < 0 || c.Policy.FireConfidenceThreshold > 1 {
		return fmt.Errorf("policy.fire_confidence_threshold must be in [0,1]")
	}
	if c.Policy.ParticulateThreshold < 0 {
		return fmt.Errorf("policy.particulate_threshold must not be negative")
	}
	if c.Policy.Cooldown < 0 {
		return fmt.Errorf("policy.cooldown must not be negative")
	}
	if c.Evidence.ImageDir == "" {
		return fmt.Errorf("evidence.image_dir is required")
	}
	if c.Evidence.LogPath == "" {
		return fmt.Errorf("evidence.log_path is required")
	}
	if c.Remote.ConnString != "" && c.Remote.ObjectEndpoint == "" {
		return fmt.Errorf("remote.object_endpoint is required when remote sync is enabled")
	}
	return nil
}

// RemoteEnabled reports whether the remote record store is configured.
func (c *Config) RemoteEnabled() bool {
	return c.Remote.ConnString != ""
}
