package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the projecthub CLI.
//
// Fields:
//   - ServerURL: base URL of the auth server's HTTP API.
//   - TokenFile: where the session token is kept between invocations.
//   - RequestTimeout: upper bound for a single API call.
type Config struct {
	ServerURL      string
	TokenFile      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.TokenFile = defaultTokenFile()
	c.RequestTimeout = 10 * time.Second
}

// Load builds a Config from defaults, the JSON file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	return cfg, nil
}

func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("PROJECTHUB_SERVER_URL"); ok {
		cfg.ServerURL = v
	}
	if v, ok := os.LookupEnv("PROJECTHUB_TOKEN_FILE"); ok {
		cfg.TokenFile = v
	}
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".projecthub-token"
	}
	return filepath.Join(home, ".projecthub", "token")
}
