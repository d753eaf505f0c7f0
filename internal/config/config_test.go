package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:       8080,
		DBPath:     ":memory:",
		JWTSecret:  "a-secret-that-is-long-enough-for-prod",
		JWTTTL:     time.Hour,
		JWTIssuer:  "bulletin-board",
		BcryptCost: 10,
		LogLevel:   "info",
		Env:        "development",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "data/board.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "bulletin-board", cfg.JWTIssuer)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BCRYPT_COST", "4")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yml := "DB_PATH: /tmp/from-file.db\nJWT_ISSUER: file-issuer\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o600))
	t.Setenv("JWT_ISSUER", "env-issuer")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-file.db", cfg.DBPath)
	assert.Equal(t, "env-issuer", cfg.JWTIssuer, "environment wins over the file")
}

func TestLoad_RejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load(t.TempDir())

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"empty db path", func(c *Config) { c.DBPath = "" }, true},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"zero ttl", func(c *Config) { c.JWTTTL = 0 }, true},
		{"negative ttl", func(c *Config) { c.JWTTTL = -time.Minute }, true},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 3 }, true},
		{"bcrypt cost too high", func(c *Config) { c.BcryptCost = 32 }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "chatty" }, true},
		{"prod with default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = DefaultJWTSecret
		}, true},
		{"prod with 20-char secret", func(c *Config) {
			c.Env = "prod"
			c.JWTSecret = "twenty-char-secret!!"
		}, true},
		{"prod with strong secret", func(c *Config) { c.Env = "production" }, false},
		{"dev with 16-char secret", func(c *Config) { c.JWTSecret = "sixteen-chars-ok" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
