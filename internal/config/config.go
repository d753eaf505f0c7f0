// Package config loads application configuration from the environment
// and an optional config.yml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/bulletin-board/internal/auth"
)

// DefaultJWTSecret is only good for local development; Validate rejects it
// in production.
const DefaultJWTSecret = "dev-secret-change-me-before-deploying"

// Config holds application configuration values.
type Config struct {
	Port       int           `mapstructure:"PORT"`
	DBPath     string        `mapstructure:"DB_PATH"`
	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	JWTTTL     time.Duration `mapstructure:"JWT_TTL"`
	JWTIssuer  string        `mapstructure:"JWT_ISSUER"`
	BcryptCost int           `mapstructure:"BCRYPT_COST"`
	LogLevel   string        `mapstructure:"LOG_LEVEL"`
	Env        string        `mapstructure:"APP_ENV"`
}

// Load reads configuration. Environment variables win over config.yml,
// which wins over the defaults. A missing config file is fine.
func Load(searchPaths ...string) (*Config, error) {
	v := viper.New()

	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_PATH", "data/board.db")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("JWT_ISSUER", "bulletin-board")
	v.SetDefault("BCRYPT_COST", auth.DefaultCost)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_ENV", "development")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}
	return &cfg, nil
}

// Validate checks required values and the stricter production rules.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d is out of range", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("DB_PATH is required")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.IsProduction() {
		if c.JWTSecret == DefaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
	}
	return nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "production" || env == "prod"
}

// SlogLevel returns LOG_LEVEL as a slog.Level. Validate has already
// rejected unknown names.
func (c *Config) SlogLevel() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", s)
	}
	return lvl, nil
}
