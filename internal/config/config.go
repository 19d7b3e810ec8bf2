// Package config loads service settings from an optional YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"weaponwheel/internal/lib/logger"
)

// Environment variables that override file values.
const (
	EnvConfigPath  = "CONFIG_PATH"
	EnvPort        = "PORT"
	EnvBaseURL     = "BASE_URL"
	EnvLogLevel    = "LOG_LEVEL"
	EnvOptionsFile = "OPTIONS_FILE"
)

type Config struct {
	Env     string        `yaml:"env"`
	HTTP    HTTPServer    `yaml:"http"`
	Log     logger.Config `yaml:"log"`
	Wheel   Wheel         `yaml:"wheel"`
	BaseURL string        `yaml:"base_url"`
}

type HTTPServer struct {
	Address           string        `yaml:"address"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	AllowedOrigins    []string      `yaml:"allowed_origins"`
}

type Wheel struct {
	OptionsFile string `yaml:"options_file"`
	DefaultID   string `yaml:"default_id"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Env: logger.EnvLocal,
		HTTP: HTTPServer{
			Address:           ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			IdleTimeout:       120 * time.Second,
			AllowedOrigins:    []string{"*"},
		},
		Log: logger.Config{
			Dir: "logs",
		},
		Wheel: Wheel{
			DefaultID: "main",
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path means defaults only; a named file must exist.
func Load(path string) (Config, error) {
	const op = "config.Load"

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	cfg.Log.Env = cfg.Env
	return cfg, nil
}

// MustLoad loads from path, falling back to CONFIG_PATH, and exits on error.
func MustLoad(path string) Config {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	cfg, err := Load(path)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func applyEnv(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv(EnvPort)); port != "" {
		cfg.HTTP.Address = ":" + port
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOptionsFile)); v != "" {
		cfg.Wheel.OptionsFile = v
	}
}

func (c Config) validate() error {
	switch c.Env {
	case logger.EnvLocal, logger.EnvDev, logger.EnvProd:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}
	if c.HTTP.Address == "" {
		return errors.New("http.address is empty")
	}
	if c.Wheel.DefaultID == "" {
		return errors.New("wheel.default_id is empty")
	}
	return nil
}
