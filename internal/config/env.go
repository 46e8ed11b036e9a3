package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const (
	// LogFormatConsole renders human-readable log lines.
	LogFormatConsole = "console"
	// LogFormatJSON renders one JSON object per log line.
	LogFormatJSON = "json"
)

// Env holds process configuration loaded from AUTOPROJECT_* environment variables.
type Env struct {
	Root        string `envconfig:"ROOT"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"console"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`
	Session     string `envconfig:"SESSION" default:"default"`
}

// LoadEnv reads the environment.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("autoproject", &env); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// Validate checks enumerated values.
func (e *Env) Validate() error {
	switch e.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("invalid AUTOPROJECT_LOG_FORMAT %q: must be %q or %q", e.LogFormat, LogFormatConsole, LogFormatJSON)
	}
	if e.Session == "" {
		return fmt.Errorf("AUTOPROJECT_SESSION must not be empty")
	}
	return nil
}
