// Package clilog configures the slog logger used by the sample programs
// from ARGBIND_LOG_* environment variables.
package clilog

import (
	"cloudeng.io/cmdutil"
	"github.com/tomerfiliba/argbind/env"
)

// Config is read from the environment. Level follows cmdutil's scale:
// 0=error, 1=warn, 2=info, 3=debug.
type Config struct {
	Level  int    `env:"ARGBIND_LOG_LEVEL=0"`
	Format string `env:"ARGBIND_LOG_FORMAT=text"`
	File   string `env:"ARGBIND_LOG_FILE="`
}

// Load reads Config using lookup.
func Load(lookup env.Lookup) (cmdutil.LoggingConfig, error) {
	var c Config
	if err := env.LoadSpecFrom(&c, lookup); err != nil {
		return cmdutil.LoggingConfig{}, err
	}
	return cmdutil.LoggingConfig{Level: c.Level, Format: c.Format, File: c.File}, nil
}

// New returns a logger configured from the environment. By default it
// writes errors only, as text, to stderr.
func New(lookup env.Lookup) (*cmdutil.Logger, error) {
	cfg, err := Load(lookup)
	if err != nil {
		return nil, err
	}
	return cfg.NewLogger()
}
