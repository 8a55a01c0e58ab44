package survey

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is used when no config path is given.
const DefaultConfigFile = "sleepsurvey.yaml"

// LoadConfig loads configuration from the given path or sleepsurvey.yaml.
// A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot honour.
func (c Config) Validate() error {
	switch c.DurationConvention {
	case "", DurationAcademic, DurationSleepPattern:
	default:
		return fmt.Errorf("unknown duration convention %q (want %q or %q)",
			c.DurationConvention, DurationAcademic, DurationSleepPattern)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// SaveConfig persists configuration to disk, as JSON when the path ends in .json.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = DefaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := encodeByExt(path, cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
