package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// EnvVar is the only environment variable consumed by the client.
const EnvVar = "CONTACTS_API_URL"

// Environment is the process-start configuration resolved from the environment.
type Environment struct {
	APIURL string `env:"CONTACTS_API_URL"`
}

// LoadEnvironment loads an optional .env file from the working directory and
// parses the environment. Variables already set in the process take
// precedence over the file.
func LoadEnvironment() (Environment, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Environment{}, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	var e Environment
	if err := env.Parse(&e); err != nil {
		return Environment{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	e.APIURL = strings.TrimRight(strings.TrimSpace(e.APIURL), "/")
	return e, nil
}

// Load resolves the full configuration: the YAML file at path (defaults when
// absent), then the base URL from the environment. A non-empty apiURL
// overrides the environment.
func Load(path, apiURL string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	e, err := LoadEnvironment()
	if err != nil {
		return nil, err
	}
	cfg.BaseURL = e.APIURL
	if apiURL != "" {
		cfg.BaseURL = strings.TrimRight(apiURL, "/")
	}
	return cfg, nil
}
