// Package config holds the calculator configuration surface. Values come
// from the environment (CALC_* variables) and are validated once at startup;
// invalid values are fatal.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"
)

// Environment variable names consumed by FromEnv.
const (
	EnvMaxInputValue         = "CALC_MAX_INPUT_VALUE"
	EnvMaxHistorySize        = "CALC_MAX_HISTORY_SIZE"
	EnvPrecision             = "CALC_PRECISION"
	EnvClearPersistByDefault = "CALC_CLEAR_PERSIST_BY_DEFAULT"
	EnvHistoryFile           = "CALC_HISTORY_FILE"
)

const defaultHistoryFile = "history/calculator_history.csv"

// Config is read-only to the core once validated.
type Config struct {
	// MaxInputValue bounds the absolute magnitude of any validated operand.
	MaxInputValue decimal.Decimal
	// MaxHistorySize caps the history length.
	MaxHistorySize int
	// Precision is the number of fractional digits carried by inexact
	// operations (division, root, percent and fractional powers).
	Precision int32
	// ClearPersistByDefault controls whether ClearHistory overwrites the
	// on-disk store when the caller does not say.
	ClearPersistByDefault bool
	// HistoryFile is the path of the CSV-backed history store.
	HistoryFile string
}

// ConfigurationError reports an invalid configuration value. It is fatal at
// construction time.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// Default returns the configuration used when no environment overrides exist.
func Default() *Config {
	return &Config{
		MaxInputValue:         decimal.New(1, 999),
		MaxHistorySize:        1000,
		Precision:             10,
		ClearPersistByDefault: true,
		HistoryFile:           defaultHistoryFile,
	}
}

// FromEnv builds a Config from CALC_* environment variables on top of the
// defaults. Unparsable values are configuration errors, not silent fallbacks.
func FromEnv() (*Config, error) {
	cfg := Default()

	if v := os.Getenv(EnvMaxInputValue); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, &ConfigurationError{Field: "max_input_value", Reason: fmt.Sprintf("is not a decimal: %q", v)}
		}
		cfg.MaxInputValue = d
	}

	if v := os.Getenv(EnvMaxHistorySize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, &ConfigurationError{Field: "max_history_size", Reason: fmt.Sprintf("is not an integer: %q", v)}
		}
		cfg.MaxHistorySize = n
	}

	if v := os.Getenv(EnvPrecision); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, &ConfigurationError{Field: "precision", Reason: fmt.Sprintf("is not an integer: %q", v)}
		}
		cfg.Precision = int32(n)
	}

	if v := os.Getenv(EnvClearPersistByDefault); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &ConfigurationError{Field: "clear_persist_by_default", Reason: fmt.Sprintf("is not a boolean: %q", v)}
		}
		cfg.ClearPersistByDefault = b
	}

	if v := os.Getenv(EnvHistoryFile); v != "" {
		cfg.HistoryFile = filepath.Clean(v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if c.MaxInputValue.Sign() <= 0 {
		return &ConfigurationError{Field: "max_input_value", Reason: "must be positive"}
	}
	if c.MaxHistorySize <= 0 {
		return &ConfigurationError{Field: "max_history_size", Reason: "must be positive"}
	}
	if c.Precision <= 0 {
		return &ConfigurationError{Field: "precision", Reason: "must be positive"}
	}
	if c.HistoryFile == "" {
		return &ConfigurationError{Field: "history_file", Reason: "must not be empty"}
	}
	return nil
}
