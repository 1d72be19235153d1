package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/projecthub/internal/flagx"
	"github.com/dmitrijs2005/projecthub/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. It is pre-filled from the current Config, so keys missing from the
// file keep their earlier values.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC   string         `json:"endpoint_addr_grpc"`
	DatabaseDSN        string         `json:"database_dsn"`
	SecretKey          string         `json:"secret_key"`
	TokenLifetime      timex.Duration `json:"token_lifetime"`
	RevocationBackend  string         `json:"revocation_backend"`
	RedisAddr          string         `json:"redis_addr"`
	RedisPassword      string         `json:"redis_password"`
	RedisDB            int            `json:"redis_db"`
	StoreTimeout       timex.Duration `json:"store_timeout"`
	PurgeInterval      timex.Duration `json:"purge_interval"`
	MinPasswordLength  int            `json:"min_password_length"`
	AutoLogin          bool           `json:"auto_login"`
	LogLevel           string         `json:"log_level"`
	RateLimitPerMinute float64        `json:"rate_limit_per_minute"`
	RateLimitBurst     int            `json:"rate_limit_burst"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags. If neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{
		EndpointAddrHTTP:   config.EndpointAddrHTTP,
		EndpointAddrGRPC:   config.EndpointAddrGRPC,
		DatabaseDSN:        config.DatabaseDSN,
		SecretKey:          config.SecretKey,
		TokenLifetime:      timex.Duration{Duration: config.TokenLifetime},
		RevocationBackend:  config.RevocationBackend,
		RedisAddr:          config.RedisAddr,
		RedisPassword:      config.RedisPassword,
		RedisDB:            config.RedisDB,
		StoreTimeout:       timex.Duration{Duration: config.StoreTimeout},
		PurgeInterval:      timex.Duration{Duration: config.PurgeInterval},
		MinPasswordLength:  config.MinPasswordLength,
		AutoLogin:          config.AutoLogin,
		LogLevel:           config.LogLevel,
		RateLimitPerMinute: config.RateLimitPerMinute,
		RateLimitBurst:     config.RateLimitBurst,
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenLifetime = c.TokenLifetime.Duration
	config.RevocationBackend = c.RevocationBackend
	config.RedisAddr = c.RedisAddr
	config.RedisPassword = c.RedisPassword
	config.RedisDB = c.RedisDB
	config.StoreTimeout = c.StoreTimeout.Duration
	config.PurgeInterval = c.PurgeInterval.Duration
	config.MinPasswordLength = c.MinPasswordLength
	config.AutoLogin = c.AutoLogin
	config.LogLevel = c.LogLevel
	config.RateLimitPerMinute = c.RateLimitPerMinute
	config.RateLimitBurst = c.RateLimitBurst
}
