package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env holds settings read from the process environment.
type Env struct {
	LogLevel slog.Level `env:"REFLEXRUSH_LOG_LEVEL" envDefault:"INFO"`
	LogFile  string     `env:"REFLEXRUSH_LOG_FILE"`
	Journal  string     `env:"REFLEXRUSH_JOURNAL" envDefault:":memory:"`
}

// LoadEnv merges an optional .env file into the environment and parses Env.
// Variables already set in the environment win over the file.
func LoadEnv(dotenvPath string) (Env, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !isNotExist(err) {
			return Env{}, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	}
	cfg, err := env.ParseAs[Env]()
	if err != nil {
		return Env{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogPath()
	}
	return cfg, nil
}
