// Package config loads server settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DevJWTSecret signs tokens when no secret is configured. Fine for local
// runs only.
const DevJWTSecret = "settlewise-dev-secret"

// MinJWTSecretLength is the shortest accepted signing secret, in bytes.
const MinJWTSecretLength = 16

// Config holds everything the server needs at startup.
type Config struct {
	Port      int           `yaml:"port"`
	DBPath    string        `yaml:"db_path"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	LogLevel  string        `yaml:"log_level"`
	Currency  string        `yaml:"currency"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:      8080,
		DBPath:    "./data/settlewise.db",
		JWTSecret: DevJWTSecret,
		TokenTTL:  24 * time.Hour,
		LogLevel:  "info",
		Currency:  "USD",
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.Port = p
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL %q: %w", ttl, err)
		}
		c.TokenTTL = d
	}
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Currency = strings.ToUpper(getEnv("CURRENCY", c.Currency))
	return nil
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("port %d out of range [1, 65535]", c.Port)
	case strings.TrimSpace(c.DBPath) == "":
		return errors.New("db_path is required")
	case len(c.JWTSecret) < MinJWTSecretLength:
		return fmt.Errorf("jwt_secret must be at least %d bytes", MinJWTSecretLength)
	case c.TokenTTL <= 0:
		return fmt.Errorf("token_ttl must be positive, got %s", c.TokenTTL)
	case len(c.Currency) != 3:
		return fmt.Errorf("currency %q must be a 3-letter code", c.Currency)
	}
	return nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
