package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the console configuration.
// Search order: customPath -> ~/.jnb/configs/console.yaml -> ./configs/console.yaml -> embedded default.
// Files are merged over the defaults, so they only need the keys they change.
func Load(customPath string) (ConsoleConfig, error) {
	cfg := DefaultConsoleConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("console.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, cfg.Validate()
			}
			cfg = DefaultConsoleConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/console.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, cfg.Validate()
		}
		cfg = DefaultConsoleConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultConsoleYAML, &cfg); err != nil {
		return DefaultConsoleConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, cfg.Validate()
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jnb", "configs", filename)
}
