// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Engine backends.
const (
	EngineMemory = "memory"
	EngineRedis  = "redis"
)

// Config holds every setting the CLI needs. Flags override these values.
type Config struct {
	LogLevel       string  `env:"MODULARSYNTH_LOG_LEVEL" envDefault:"info"`
	LogJSON        bool    `env:"MODULARSYNTH_LOG_JSON" envDefault:"false"`
	ClickThreshold float64 `env:"MODULARSYNTH_CLICK_THRESHOLD" envDefault:"5"`
	RackFile       string  `env:"MODULARSYNTH_RACK_FILE"`
	Engine         string  `env:"MODULARSYNTH_ENGINE" envDefault:"memory"`
	HTTPAddr       string  `env:"MODULARSYNTH_HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	OTelEndpoint   string  `env:"MODULARSYNTH_OTEL_ENDPOINT"`

	Redis RedisConfig `envPrefix:"MODULARSYNTH_REDIS_"`
}

// RedisConfig configures the Redis engine mirror.
type RedisConfig struct {
	Addr     string        `env:"ADDR" envDefault:"localhost:6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	Prefix   string        `env:"PREFIX" envDefault:"modularsynth:engine:"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"2s"`
}

// Load reads the optional dotenv files (missing files are fine) and then
// parses the environment. Variables already set win over dotenv values.
func Load(dotenv ...string) (Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, f := range dotenv {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c Config) Validate() error {
	switch c.Engine {
	case EngineMemory, EngineRedis:
	default:
		return fmt.Errorf("unknown engine %q (want %s or %s)", c.Engine, EngineMemory, EngineRedis)
	}
	if c.ClickThreshold < 0 {
		return fmt.Errorf("click threshold must not be negative, got %v", c.ClickThreshold)
	}
	return nil
}
