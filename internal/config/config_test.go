package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "snapgram-backend", cfg.Service.Name)
	assert.Equal(t, ":8080", cfg.Service.Addr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVICE_ADDR", ":9090")
	t.Setenv("MONGODB_MAX_POOL", "50")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Service.Addr)
	assert.Equal(t, uint64(50), cfg.Mongo.MaxPoolSize)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("MONGODB_MAX_POOL", "not-a-number")
	t.Setenv("JWT_TTL", "soon")

	cfg := Load()

	assert.Equal(t, uint64(20), cfg.Mongo.MaxPoolSize)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}
