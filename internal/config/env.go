package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env holds runtime overrides read from the environment. Zero values mean
// "not set" and leave CLI flags untouched.
type Env struct {
	FPS        int    `env:"JAM_FPS"`
	Seed       int64  `env:"JAM_SEED"`
	DBPath     string `env:"JAM_DB"`
	ConfigPath string `env:"JAM_CONFIG"`
	Preset     string `env:"JAM_DIFFICULTY"`
	LogLevel   string `env:"JAM_LOG_LEVEL" envDefault:"info"`
}

// LoadEnv loads the optional dotenv files (default ".env") and parses Env.
// Missing dotenv files are not an error.
func LoadEnv(files ...string) (Env, error) {
	var e Env
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return e, fmt.Errorf("config: load dotenv: %w", err)
	}
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("config: parse env: %w", err)
	}
	return e, nil
}
