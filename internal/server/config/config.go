// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds runtime settings for the projecthub auth server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses of the REST API and
//     the internal session gRPC service.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps users in memory.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Changing it
//     logs everybody out. Do not use the default in prod.
//   - TokenLifetime: validity of an issued session token.
//   - RevocationBackend: where logged-out tokens are kept (memory, redis,
//     postgres).
//   - StoreTimeout: upper bound for every storage call.
//   - PurgeInterval: how often expired revocations are removed.
//   - MinPasswordLength / AutoLogin: registration policy.
//   - RateLimitPerMinute / RateLimitBurst: per-IP limit on /login and
//     /register; zero disables it.
type Config struct {
	EndpointAddrHTTP   string
	EndpointAddrGRPC   string
	DatabaseDSN        string
	SecretKey          string
	TokenLifetime      time.Duration
	RevocationBackend  string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	StoreTimeout       time.Duration
	PurgeInterval      time.Duration
	MinPasswordLength  int
	AutoLogin          bool
	LogLevel           string
	RateLimitPerMinute float64
	RateLimitBurst     int
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenLifetime = 24 * time.Hour
	c.RevocationBackend = BackendMemory
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPassword = ""
	c.RedisDB = 0
	c.StoreTimeout = 3 * time.Second
	c.PurgeInterval = 10 * time.Minute
	c.MinPasswordLength = 3
	c.AutoLogin = true
	c.LogLevel = "info"
	c.RateLimitPerMinute = 30
	c.RateLimitBurst = 10
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is empty"))
	}
	if c.TokenLifetime <= 0 {
		errs = append(errs, fmt.Errorf("token lifetime must be positive, got %s", c.TokenLifetime))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, fmt.Errorf("store timeout must be positive, got %s", c.StoreTimeout))
	}
	switch c.RevocationBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("postgres revocation backend needs a database DSN"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown revocation backend %q", c.RevocationBackend))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
