// Package config loads certquiz settings. Sources are layered: built-in
// defaults, an optional YAML file, an optional .env file, then CERTQUIZ_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/llm"
	"github.com/abhisek/certquiz/internal/session"
)

// History backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the full application configuration.
type Config struct {
	Quiz    Quiz       `yaml:"quiz" envPrefix:"QUIZ_"`
	History History    `yaml:"history" envPrefix:"HISTORY_"`
	Log     Log        `yaml:"log" envPrefix:"LOG_"`
	LLM     llm.Config `yaml:"llm"`
}

// Quiz holds the setup form defaults.
type Quiz struct {
	Count   int `yaml:"count" env:"COUNT"`
	Minutes int `yaml:"minutes" env:"MINUTES"`

	// Bank, when set, is loaded into the pool at startup instead of the
	// built-in questions.
	Bank string `yaml:"bank" env:"BANK"`
}

// History selects where past results are kept.
type History struct {
	Backend string `yaml:"backend" env:"BACKEND"`
	Key     string `yaml:"key" env:"KEY"`

	// Dir is the directory of the file backend.
	Dir string `yaml:"dir" env:"DIR"`

	// AutoExport, when set, is rewritten with the CSV export after every
	// saved result.
	AutoExport string `yaml:"auto_export" env:"AUTO_EXPORT"`

	Redis Redis `yaml:"redis" envPrefix:"REDIS_"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
	Prefix   string `yaml:"prefix" env:"PREFIX"`
}

type Log struct {
	Level string `yaml:"level" env:"LEVEL"`
	File  string `yaml:"file" env:"FILE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Quiz: Quiz{Count: 10, Minutes: 15},
		History: History{
			Backend: BackendSQLite,
			Key:     history.SlotKey,
			Redis:   Redis{Addr: "localhost:6379", Prefix: "certquiz:"},
		},
		Log: Log{Level: "info"},
		LLM: llm.DefaultConfig(),
	}
}

// Load builds the configuration. path is an explicit YAML file and must
// exist when given; otherwise DefaultPath is read if present.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := readYAML(path, &cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return cfg, err
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: llm.EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.LLM.Discover()

	return cfg, cfg.Validate()
}

func readYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/certquiz/config.yaml, or "" when no
// config directory can be resolved.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "certquiz", "config.yaml")
}

// Validate rejects settings the app cannot start with.
func (c Config) Validate() error {
	if c.Quiz.Count < 1 {
		return fmt.Errorf("quiz.count must be at least 1, got %d", c.Quiz.Count)
	}
	if c.Quiz.Minutes < 1 {
		return fmt.Errorf("quiz.minutes must be at least 1, got %d", c.Quiz.Minutes)
	}
	if c.Quiz.Minutes > session.MaxMinutes {
		return fmt.Errorf("quiz.minutes must be at most %d, got %d", session.MaxMinutes, c.Quiz.Minutes)
	}
	switch c.History.Backend {
	case BackendSQLite, BackendFile:
	case BackendRedis:
		if c.History.Redis.Addr == "" {
			return errors.New("history.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown history backend %q", c.History.Backend)
	}
	if c.History.Key == "" {
		return errors.New("history.key must not be empty")
	}
	return c.LLM.Validate()
}
