// Package config loads and validates command line configuration from
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Config holds all CLI configuration.
type Config struct {
	// Logging settings.
	LogLevel  string // debug, info, warn or error
	LogFormat string // "console" or "json"

	// Decoding settings.
	MaxParallel int // Files decoded at the same time.

	// OTEL settings.
	OTELEndpoint string // host:port of an OTLP/HTTP collector; empty disables tracing.
	OTELInsecure bool
	ServiceName  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	var errs []error

	maxParallel, err := envInt("PULSEQ_MAX_PARALLEL", 4)
	errs = append(errs, err)
	insecure, err := envBool("PULSEQ_OTEL_INSECURE", false)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg := Config{
		LogLevel:     envStr("PULSEQ_LOG_LEVEL", "info"),
		LogFormat:    envStr("PULSEQ_LOG_FORMAT", "console"),
		MaxParallel:  maxParallel,
		OTELEndpoint: envStr("PULSEQ_OTEL_ENDPOINT", ""),
		OTELInsecure: insecure,
		ServiceName:  envStr("PULSEQ_SERVICE_NAME", "pulseq"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: PULSEQ_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("config: PULSEQ_LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	if c.MaxParallel <= 0 {
		return fmt.Errorf("config: PULSEQ_MAX_PARALLEL must be positive")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("config: PULSEQ_SERVICE_NAME is required")
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}
