package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("PROJECTHUB_HTTP_ADDR", ":9999")
	t.Setenv("PROJECTHUB_SECRET_KEY", "env-secret")
	t.Setenv("PROJECTHUB_TOKEN_LIFETIME", "15m")
	t.Setenv("PROJECTHUB_REVOCATION_BACKEND", "redis")
	t.Setenv("PROJECTHUB_REDIS_DB", "2")
	t.Setenv("PROJECTHUB_AUTO_LOGIN", "false")
	t.Setenv("PROJECTHUB_RATE_LIMIT_PER_MINUTE", "0.5")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, "env-secret", c.SecretKey)
	assert.Equal(t, 15*time.Minute, c.TokenLifetime)
	assert.Equal(t, BackendRedis, c.RevocationBackend)
	assert.Equal(t, 2, c.RedisDB)
	assert.False(t, c.AutoLogin)
	assert.Equal(t, 0.5, c.RateLimitPerMinute)

	// untouched
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, 3*time.Second, c.StoreTimeout)
}

func TestParseEnv_InvalidValuesPanic(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"duration", "PROJECTHUB_STORE_TIMEOUT", "fast"},
		{"int", "PROJECTHUB_MIN_PASSWORD_LENGTH", "three"},
		{"bool", "PROJECTHUB_AUTO_LOGIN", "maybe"},
		{"float", "PROJECTHUB_RATE_LIMIT_PER_MINUTE", "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			var c Config
			assert.Panics(t, func() { parseEnv(&c) })
		})
	}
}
