package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string        `yaml:"port"`
	Catalog        string        `yaml:"catalog"` // memory | mongo
	MongoURI       string        `yaml:"mongoUri"`
	MongoDB        string        `yaml:"mongoDb"`
	SessionSecret  string        `yaml:"sessionSecret"`
	TickInterval   time.Duration `yaml:"tickInterval"`
	SessionIdle    time.Duration `yaml:"sessionIdle"`
	MaxSessions    int           `yaml:"maxSessions"` // 0 = no cap
	PromptRate     float64       `yaml:"promptRate"` // answers per second per session
	PromptBurst    int           `yaml:"promptBurst"`
	Seed           int64         `yaml:"seed"` // 0 = time seeded
	LogLevel       string        `yaml:"logLevel"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
}

func defaultConfig() Config {
	return Config{
		Port:          "8080",
		Catalog:       "memory",
		MongoURI:      "mongodb://localhost:27017",
		MongoDB:       "coffeeintel",
		SessionSecret: "change_me",
		TickInterval:  5 * time.Second,
		SessionIdle:   30 * time.Minute,
		MaxSessions:   1000,
		PromptRate:    2,
		PromptBurst:   5,
		LogLevel:      "info",
		AllowedOrigins: []string{
			"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000",
		},
	}
}

// loadConfig layers defaults, an optional YAML file (CONFIG_FILE) and the
// environment, in that order. A .env file in the working directory is loaded
// into the environment first when present.
func loadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.Port = getenv("PORT", cfg.Port)
	cfg.Catalog = getenv("CATALOG", cfg.Catalog)
	cfg.MongoURI = getenv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDB = getenv("MONGO_DB", cfg.MongoDB)
	cfg.SessionSecret = getenv("SESSION_SECRET", cfg.SessionSecret)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}

	var err error
	if cfg.TickInterval, err = getDuration("TICK_INTERVAL", cfg.TickInterval); err != nil {
		return Config{}, err
	}
	if cfg.SessionIdle, err = getDuration("SESSION_IDLE", cfg.SessionIdle); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("PROMPT_RATE"); v != "" {
		if cfg.PromptRate, err = strconv.ParseFloat(v, 64); err != nil {
			return Config{}, fmt.Errorf("PROMPT_RATE: %w", err)
		}
	}
	if v := os.Getenv("PROMPT_BURST"); v != "" {
		if cfg.PromptBurst, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("PROMPT_BURST: %w", err)
		}
	}
	if v := os.Getenv("MAX_SESSIONS"); v != "" {
		if cfg.MaxSessions, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("MAX_SESSIONS: %w", err)
		}
	}
	if v := os.Getenv("SEED"); v != "" {
		if cfg.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Config{}, fmt.Errorf("SEED: %w", err)
		}
	}

	if cfg.Catalog != "memory" && cfg.Catalog != "mongo" {
		return Config{}, fmt.Errorf("CATALOG must be memory or mongo, got %q", cfg.Catalog)
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
