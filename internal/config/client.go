package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ClientConfig is loaded from .releasegate/config.yaml in the project root.
type ClientConfig struct {
	Manifest string `yaml:"manifest"`  // manifest URL or local path
	Dispatch string `yaml:"dispatch"`  // CI workflow-dispatch endpoint URL
	Ref      string `yaml:"ref"`       // branch ref sent with every dispatch
	TokenEnv string `yaml:"token_env"` // env var holding the bearer token
}

// LoadClientConfig reads and parses .releasegate/config.yaml from the given directory.
func LoadClientConfig(projectDir string) (*ClientConfig, error) {
	path := projectDir + "/.releasegate/config.yaml"
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var cfg ClientConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}

	if cfg.Manifest == "" {
		return nil, fmt.Errorf("%s: 'manifest' is required", path)
	}
	if cfg.Dispatch == "" {
		return nil, fmt.Errorf("%s: 'dispatch' is required", path)
	}

	// Apply defaults
	if cfg.Ref == "" {
		cfg.Ref = "main"
	}
	if cfg.TokenEnv == "" {
		cfg.TokenEnv = "RELEASEGATE_TOKEN"
	}

	return &cfg, nil
}

// Token resolves the bearer credential from the configured env var.
// The token never lives in the config file itself.
func (c *ClientConfig) Token() (string, error) {
	t := os.Getenv(c.TokenEnv)
	if t == "" {
		return "", fmt.Errorf("no auth token: set %s", c.TokenEnv)
	}
	return t, nil
}
