package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig is loaded from /etc/releasegate/server.yaml.
type ServerConfig struct {
	Listen     string `yaml:"listen"` // e.g. ":8790"
	Token      string `yaml:"token"`
	Manifest   string `yaml:"manifest"` // manifest URL or local path
	Dispatch   string `yaml:"dispatch"` // CI workflow-dispatch endpoint URL
	Ref        string `yaml:"ref"`
	LogDir     string `yaml:"log_dir"`
	SessionTTL int    `yaml:"session_ttl"` // minutes of inactivity before a session is dropped
}

// LoadServerConfig reads and parses the server config file.
func LoadServerConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var cfg ServerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("%s: 'token' is required", path)
	}
	if cfg.Manifest == "" {
		return nil, fmt.Errorf("%s: 'manifest' is required", path)
	}
	if cfg.Dispatch == "" {
		return nil, fmt.Errorf("%s: 'dispatch' is required", path)
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8790"
	}
	if cfg.Ref == "" {
		cfg.Ref = "main"
	}
	if cfg.LogDir == "" {
		cfg.LogDir = "/var/log/releasegate"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30
	}

	return &cfg, nil
}
