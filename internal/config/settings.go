package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

const (
	SettingsName = "hydrodrag"
	EnvPrefix    = "HYDRODRAG"
)

// Settings are the engine-wide knobs. They are read once at startup from
// an optional hydrodrag.yaml and HYDRODRAG_* environment variables.
type Settings struct {
	LogLevel                   string  `mapstructure:"logLevel"`
	LogPeriod                  int     `mapstructure:"logPeriod"`
	ShipDataPath               string  `mapstructure:"shipDataPath"`
	OutputDir                  string  `mapstructure:"outputDir"`
	DraftSamplingPeriod        int     `mapstructure:"draftSamplingPeriod"`
	GlobalViscousMultiplier    float64 `mapstructure:"globalViscousMultiplier"`
	GlobalWaveMakingMultiplier float64 `mapstructure:"globalWaveMakingMultiplier"`
	GlobalLengthMultiplier     float64 `mapstructure:"globalLengthMultiplier"`
	GlobalMassMultiplier       float64 `mapstructure:"globalMassMultiplier"`
	LateralDragCoefficient     float64 `mapstructure:"lateralDragCoefficient"`
	WaterDensity               float64 `mapstructure:"waterDensity"`
	TableSpan                  float64 `mapstructure:"tableSpan"`
	LiveReload                 bool    `mapstructure:"liveReload"`
}

var ErrInvalidSetting = errors.New("config: invalid setting")

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logPeriod", 50)
	v.SetDefault("shipDataPath", "hydrodrag.shipdata.yaml")
	v.SetDefault("outputDir", "runs")
	v.SetDefault("draftSamplingPeriod", 5)
	v.SetDefault("globalViscousMultiplier", 1.0)
	v.SetDefault("globalWaveMakingMultiplier", 1.0)
	v.SetDefault("globalLengthMultiplier", 1.0)
	v.SetDefault("globalMassMultiplier", 1.0)
	v.SetDefault("lateralDragCoefficient", 1.2)
	v.SetDefault("waterDensity", 1025.0)
	v.SetDefault("tableSpan", 10.0)
	v.SetDefault("liveReload", false)
}

func DefaultSettings() *Settings {
	v := viper.New()
	setDefaults(v)
	s := &Settings{}
	// defaults always decode
	_ = v.Unmarshal(s)
	return s
}

// LoadSettings reads hydrodrag.yaml from configDir when present. A missing
// file is not an error; a malformed one is.
func LoadSettings(configDir string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(SettingsName)
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func inRange(name string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s = %g, want [%g, %g]", ErrInvalidSetting, name, v, lo, hi)
	}
	return nil
}

func (s *Settings) Validate() error {
	return errors.Join(
		inRange("draftSamplingPeriod", float64(s.DraftSamplingPeriod), 1, 50),
		inRange("globalViscousMultiplier", s.GlobalViscousMultiplier, 0, 5),
		inRange("globalWaveMakingMultiplier", s.GlobalWaveMakingMultiplier, 0, 5),
		inRange("globalLengthMultiplier", s.GlobalLengthMultiplier, 0.1, 5),
		inRange("globalMassMultiplier", s.GlobalMassMultiplier, 0.1, 10),
		inRange("lateralDragCoefficient", s.LateralDragCoefficient, 0, 10),
		inRange("waterDensity", s.WaterDensity, 1, 5000),
		inRange("tableSpan", s.TableSpan, 0.5, 100),
	)
}

// WriteDefaultSettings writes a settings file holding every default. It
// refuses to overwrite an existing file.
func WriteDefaultSettings(path string) error {
	v := viper.New()
	setDefaults(v)
	return v.SafeWriteConfigAs(path)
}
