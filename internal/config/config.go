package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.02
	DefaultDuration = 60.0
	DefaultVessel   = "cog"
	DefaultThrust   = 20000.0
)

// Config describes one synthetic run.
type Config struct {
	Vessel    string          `yaml:"vessel"`
	Class     string          `yaml:"class,omitempty"`
	Dt        float64         `yaml:"dt"`
	Duration  float64         `yaml:"duration"`
	Seed      int64           `yaml:"seed"`
	Thrust    float64         `yaml:"thrust"`
	Water     WaterConfig     `yaml:"water"`
	InitState InitStateConfig `yaml:"init_state"`
	// Integrator names the step scheme; empty selects semi-implicit Euler.
	Integrator string          `yaml:"integrator,omitempty"`
	Autopilot  AutopilotConfig `yaml:"autopilot,omitempty"`
}

type WaterConfig struct {
	SeaLevel   float64 `yaml:"sea_level"`
	Amplitude  float64 `yaml:"amplitude"`
	Wavelength float64 `yaml:"wavelength"`
	Heading    float64 `yaml:"heading"`
	CurrentX   float64 `yaml:"current_x"`
	CurrentZ   float64 `yaml:"current_z"`
	// FailEvery makes every n-th water sample fail; zero never fails.
	FailEvery int `yaml:"fail_every,omitempty"`
}

// AutopilotConfig holds the speed hold. A positive TargetSpeed replaces the
// fixed thrust with a PID on forward speed; gains are per unit of mass.
type AutopilotConfig struct {
	TargetSpeed float64 `yaml:"target_speed"`
	MaxThrust   float64 `yaml:"max_thrust"`
	Kp          float64 `yaml:"kp"`
	Ki          float64 `yaml:"ki"`
	Kd          float64 `yaml:"kd"`
}

func (a AutopilotConfig) Enabled() bool { return a.TargetSpeed > 0 }

type InitStateConfig struct {
	Speed  float64 `yaml:"speed"`
	Height float64 `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Vessel:   DefaultVessel,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Thrust:   DefaultThrust,
		Water: WaterConfig{
			Wavelength: 40,
		},
		Autopilot: AutopilotConfig{
			MaxThrust: 4 * DefaultThrust,
			Kp:        0.5,
			Ki:        0.1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
