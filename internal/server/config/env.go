package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "PROJECTHUB_"

// parseEnv overlays PROJECTHUB_* environment variables. A .env file in the
// working directory is loaded first if present; variables already set in
// the environment win over it. Unparsable values panic, like a bad config
// file does.
func parseEnv(config *Config) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		panic(err)
	}

	envString("HTTP_ADDR", &config.EndpointAddrHTTP)
	envString("GRPC_ADDR", &config.EndpointAddrGRPC)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envString("SECRET_KEY", &config.SecretKey)
	envDuration("TOKEN_LIFETIME", &config.TokenLifetime)
	envString("REVOCATION_BACKEND", &config.RevocationBackend)
	envString("REDIS_ADDR", &config.RedisAddr)
	envString("REDIS_PASSWORD", &config.RedisPassword)
	envInt("REDIS_DB", &config.RedisDB)
	envDuration("STORE_TIMEOUT", &config.StoreTimeout)
	envDuration("PURGE_INTERVAL", &config.PurgeInterval)
	envInt("MIN_PASSWORD_LENGTH", &config.MinPasswordLength)
	envBool("AUTO_LOGIN", &config.AutoLogin)
	envString("LOG_LEVEL", &config.LogLevel)
	envFloat("RATE_LIMIT_PER_MINUTE", &config.RateLimitPerMinute)
	envInt("RATE_LIMIT_BURST", &config.RateLimitBurst)
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}

func envDuration(name string, dst *time.Duration) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
	}
	*dst = d
}

func envInt(name string, dst *int) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
	}
	*dst = n
}

func envFloat(name string, dst *float64) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
	}
	*dst = f
}

func envBool(name string, dst *bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
	}
	*dst = b
}
