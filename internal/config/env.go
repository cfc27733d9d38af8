// Package config reads the environment defaults for the trashsim command.
package config

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/caarlos0/env/v11"
)

// Env holds settings that may come from the environment. Command-line flags
// override every one of them.
type Env struct {
	LogLevel  string `env:"TRASHSIM_LOG_LEVEL" envDefault:"warn"`
	Workers   int    `env:"TRASHSIM_WORKERS"`
	RulesFile string `env:"TRASHSIM_RULES_FILE"`
	Variant   string `env:"TRASHSIM_VARIANT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Env. An unset or non-positive worker count means one worker
// per available CPU.
func Load() (Env, error) {
	var cfg Env
	if err := ParseEnv(&cfg); err != nil {
		return Env{}, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return cfg, nil
}

// Vars exposes the settings as kong interpolation variables, so flags can
// declare default:"${workers}" and friends.
func (e Env) Vars() kong.Vars {
	return kong.Vars{
		"log_level":  e.LogLevel,
		"workers":    strconv.Itoa(e.Workers),
		"rules_file": e.RulesFile,
		"variant":    e.Variant,
	}
}
