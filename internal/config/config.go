// Package config sets up application-level facilities for the translator
// CLI.
package config

import (
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger builds the CLI logger. Debug wins over quiet; quiet leaves
// only errors.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case debug:
		cfg.Level = log.DebugLevel
	case quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
