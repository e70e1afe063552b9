package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"battcheck/internal/errors"
)

// Profile is a named set of limits for one battery type, stored as YAML or JSON:
//
//	name: pack-18650-4s
//	sample_interval_seconds: 8
//	limits:
//	  min_voltage: 12.0
//	  min_capacity: 2.5
//
// Keys that are absent keep the value already configured.
type Profile struct {
	Name                  string        `yaml:"name"`
	SampleIntervalSeconds float64       `yaml:"sample_interval_seconds"`
	Limits                profileLimits `yaml:"limits"`
}

type profileLimits struct {
	MinVoltage  float64 `yaml:"min_voltage"`
	MaxVoltage  float64 `yaml:"max_voltage"`
	MinCurrent  float64 `yaml:"min_current"`
	MaxCurrent  float64 `yaml:"max_current"`
	MinCapacity float64 `yaml:"min_capacity"`
	Tolerance   float64 `yaml:"tolerance"`
}

// LoadProfile reads the profile at path and overlays it onto config. The
// result is validated again, so a profile can never leave an invalid config.
func LoadProfile(config *Config, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.WithCode(errors.CodeNotFound, fmt.Errorf("profile %s: %w", path, err))
		}
		return "", errors.Wrapf(err, "failed to read profile %s", path)
	}

	updated := *config
	var name string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		name, err = applyJSONProfile(&updated, data)
	case ".yaml", ".yml":
		name, err = applyYAMLProfile(&updated, data)
	default:
		err = errors.ConfigInvalid(fmt.Sprintf("unsupported profile extension %q", filepath.Ext(path)))
	}
	if err != nil {
		return "", err
	}

	if err := Validate(&updated); err != nil {
		return "", errors.Wrapf(err, "profile %s", path)
	}
	*config = updated
	return name, nil
}

func applyYAMLProfile(config *Config, data []byte) (string, error) {
	profile := Profile{
		SampleIntervalSeconds: config.Sampling.IntervalSeconds,
		Limits: profileLimits{
			MinVoltage:  config.Limits.MinVoltage,
			MaxVoltage:  config.Limits.MaxVoltage,
			MinCurrent:  config.Limits.MinCurrent,
			MaxCurrent:  config.Limits.MaxCurrent,
			MinCapacity: config.Limits.MinCapacity,
			Tolerance:   config.Limits.Tolerance,
		},
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return "", errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("invalid YAML profile: %w", err))
	}

	config.Sampling.IntervalSeconds = profile.SampleIntervalSeconds
	config.Limits.MinVoltage = profile.Limits.MinVoltage
	config.Limits.MaxVoltage = profile.Limits.MaxVoltage
	config.Limits.MinCurrent = profile.Limits.MinCurrent
	config.Limits.MaxCurrent = profile.Limits.MaxCurrent
	config.Limits.MinCapacity = profile.Limits.MinCapacity
	config.Limits.Tolerance = profile.Limits.Tolerance
	return profile.Name, nil
}

func applyJSONProfile(config *Config, data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", errors.ConfigInvalid("invalid JSON profile")
	}

	fields := []struct {
		path   string
		target *float64
	}{
		{"sample_interval_seconds", &config.Sampling.IntervalSeconds},
		{"limits.min_voltage", &config.Limits.MinVoltage},
		{"limits.max_voltage", &config.Limits.MaxVoltage},
		{"limits.min_current", &config.Limits.MinCurrent},
		{"limits.max_current", &config.Limits.MaxCurrent},
		{"limits.min_capacity", &config.Limits.MinCapacity},
		{"limits.tolerance", &config.Limits.Tolerance},
	}
	for _, field := range fields {
		result := gjson.GetBytes(data, field.path)
		if !result.Exists() {
			continue
		}
		if result.Type != gjson.Number {
			return "", errors.ConfigInvalid(fmt.Sprintf("profile field %s must be a number", field.path))
		}
		*field.target = result.Float()
	}

	return gjson.GetBytes(data, "name").String(), nil
}
