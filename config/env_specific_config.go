package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvType names a deployment environment a config file is generated for.
type EnvType string

const (
	Development EnvType = "dev"
	Staging     EnvType = "staging"
	Production  EnvType = "production"
)

// DefaultConfig returns the configuration LoadConfig starts from before any
// file or environment overrides.
func DefaultConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}
	return &cfg, nil
}

// ConfigPathForEnv returns the file name a config for env is stored under.
func ConfigPathForEnv(dir string, env EnvType) (string, error) {
	var filename string
	switch env {
	case Development:
		filename = "config.dev.yaml"
	case Staging:
		filename = "config.staging.yaml"
	case Production:
		filename = "config.prod.yaml"
	default:
		return "", fmt.Errorf("unknown environment: %s", env)
	}
	return filepath.Join(dir, filename), nil
}

// TemplateForEnv returns the defaults adjusted for env. Secrets are left
// empty and are expected to come from the environment.
func TemplateForEnv(env EnvType) (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}

	switch env {
	case Development:
		cfg.Server.Environment = EnvDevelopment
	case Staging, Production:
		cfg.Server.Environment = EnvProduction
		cfg.Database.SSLMode = "require"
		cfg.Redis.UseTLS = true
		cfg.Server.AllowedOrigins = []string{}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}
	return cfg, nil
}

// WriteConfigFile renders cfg as YAML into path. An existing file is only
// replaced when overwrite is set.
func WriteConfigFile(path string, cfg *Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s", path)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
