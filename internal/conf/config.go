package conf

import (
	"github.com/caarlos0/env/v6"
)

// Env holds process-level settings read from the environment.
type Env struct {
	// LogLevel is a zap level name. Logs are written to stderr.
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`

	// LogFile enables an additional JSON log file, rotated by size.
	LogFile string `env:"LOG_FILE"`

	// PrometheusBind is the metrics listen address. Empty disables the server.
	PrometheusBind string `env:"PROMETHEUS_BIND"`

	// Seed for the random generators. Zero picks a random seed.
	Seed uint64 `env:"THUS_SAITH_SEED"`
}

func ParseEnv() (*Env, error) {
	cfg := Env{}
	err := env.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
