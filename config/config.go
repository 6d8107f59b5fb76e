package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	DatabaseURL    string        `toml:"database_url"`
	JWTSecret      string        `toml:"jwt_secret"`
	JWTExpiration  time.Duration `toml:"jwt_expiration"`
	ServerPort     string        `toml:"server_port"`
	CORSOrigins    []string      `toml:"cors_origins"`
	LogLevel       string        `toml:"log_level"`
	LogDevelopment bool          `toml:"log_development"`
	NATSURL        string        `toml:"nats_url"`
	BcryptCost     int           `toml:"bcrypt_cost"`
}

func Default() *Config {
	return &Config{
		DatabaseURL:   "postgresql://postgres@localhost:5432/erms",
		JWTSecret:     "your-super-secret-key-change-in-production",
		JWTExpiration: 30 * time.Minute,
		ServerPort:    "8000",
		CORSOrigins:   []string{"http://localhost:3000"},
		LogLevel:      "info",
		BcryptCost:    bcrypt.DefaultCost,
	}
}

// Load builds the configuration from defaults, then the TOML file at path (if
// path is non-empty), then a .env file in the working directory, then the
// process environment. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	// .env is optional; real environment variables take precedence over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.NATSURL = getEnv("NATS_URL", c.NATSURL)

	if v := os.Getenv("JWT_EXPIRATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRATION: %w", err)
		}
		c.JWTExpiration = d
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("LOG_DEVELOPMENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_DEVELOPMENT: %w", err)
		}
		c.LogDevelopment = b
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		c.BcryptCost = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database url is required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("jwt expiration must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
