package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"battcheck/domain/core"
	"battcheck/domain/measurement"
	"battcheck/internal/errors"
)

var configValidate = validator.New()

// Config represents the complete application configuration
type Config struct {
	Limits   measurement.Limits
	Sampling SamplingConfig
	Output   OutputConfig
	Logging  LoggingConfig
	Batch    BatchConfig
}

// SamplingConfig holds the acquisition cadence of the test rig
type SamplingConfig struct {
	IntervalSeconds float64 `validate:"gt=0"`
}

// IntervalHours returns the sampling interval in hours
func (s SamplingConfig) IntervalHours() float64 {
	return core.HoursFromSeconds(s.IntervalSeconds)
}

// OutputConfig holds report output settings
type OutputConfig struct {
	Dir         string   `validate:"required"`
	Formats     []string `validate:"dive,oneof=text raw csv xlsx markdown md html all"`
	CSVLogFile  string
	SaveRawData bool
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level       string `validate:"oneof=debug trace info warn warning error"`
	Development bool
}

// BatchConfig holds settings for evaluating several data files at once
type BatchConfig struct {
	Parallelism int `validate:"min=1,max=64"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	limits, err := loadLimits()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load limit configuration")
	}
	config.Limits = *limits

	sampling, err := loadSamplingConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sampling configuration")
	}
	config.Sampling = *sampling
	config.Output = *loadOutputConfig()
	config.Logging = *loadLoggingConfig()
	config.Batch = *loadBatchConfig()

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Limits:   measurement.DefaultLimits(),
		Sampling: SamplingConfig{IntervalSeconds: 8},
		Output:   OutputConfig{Dir: ".", Formats: []string{"text"}},
		Logging:  LoggingConfig{Level: "info"},
		Batch:    BatchConfig{Parallelism: 1},
	}
}

func loadLimits() (*measurement.Limits, error) {
	limits := measurement.DefaultLimits()

	fields := []struct {
		key    string
		target *float64
	}{
		{"MIN_VOLTAGE", &limits.MinVoltage},
		{"MAX_VOLTAGE", &limits.MaxVoltage},
		{"MIN_CURRENT", &limits.MinCurrent},
		{"MAX_CURRENT", &limits.MaxCurrent},
		{"MIN_CAPACITY", &limits.MinCapacity},
		{"TOLERANCE", &limits.Tolerance},
	}
	// Limits are safety relevant: a malformed value is an error, not a silent default
	for _, field := range fields {
		value, err := parseEnvFloat(field.key, *field.target)
		if err != nil {
			return nil, err
		}
		*field.target = value
	}

	return &limits, nil
}

// The interval scales every capacity figure, so it parses as strictly as the limits
func loadSamplingConfig() (*SamplingConfig, error) {
	interval, err := parseEnvFloat("SAMPLE_INTERVAL_SECONDS", 8)
	if err != nil {
		return nil, err
	}
	return &SamplingConfig{IntervalSeconds: interval}, nil
}

func loadOutputConfig() *OutputConfig {
	return &OutputConfig{
		Dir:         getEnvOrDefault("OUTPUT_DIR", "."),
		Formats:     splitList(getEnvOrDefault("REPORT_FORMATS", "text")),
		CSVLogFile:  getEnvOrDefault("CSV_LOG_FILE", ""),
		SaveRawData: getEnvBoolOrDefault("SAVE_RAW_DATA", false),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:       strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		Development: getEnvBoolOrDefault("LOG_DEVELOPMENT", false),
	}
}

func loadBatchConfig() *BatchConfig {
	return &BatchConfig{
		Parallelism: getEnvIntOrDefault("BATCH_PARALLELISM", 1),
	}
}

// Validate checks struct constraints and the limit invariants
func Validate(config *Config) error {
	if err := configValidate.Struct(config); err != nil {
		return errors.ConfigInvalid(describeValidationError(err))
	}
	if err := config.Limits.Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

func describeValidationError(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return err.Error()
	}
	fe := validationErrs[0]
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseEnvFloat(key string, defaultValue float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be a number, got %q", key, value))
	}
	if math.IsNaN(floatValue) || math.IsInf(floatValue, 0) {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be finite, got %q", key, value))
	}
	return floatValue, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
