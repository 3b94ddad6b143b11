package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// toolConfig holds the options bsoncli loads from .bsoncli.jsonc or
// .bsoncli.yaml, mirroring the precedence calvinalkan-agent-task's tk tool
// uses for its own dotfile: defaults, then a config file if one exists,
// then CLI flags win last.
type toolConfig struct {
	ValidateKeys bool   `json:"validate_keys" yaml:"validate_keys"`
	DefaultMode  string `json:"default_mode"  yaml:"default_mode"`
}

func defaultToolConfig() toolConfig {
	return toolConfig{
		ValidateKeys: true,
		DefaultMode:  "",
	}
}

// loadToolConfig looks for .bsoncli.jsonc then .bsoncli.yaml in dir and
// merges whichever is found over the defaults. Neither file existing is
// not an error.
func loadToolConfig(dir string) (toolConfig, error) {
	cfg := defaultToolConfig()

	if data, err := os.ReadFile(filepath.Join(dir, ".bsoncli.jsonc")); err == nil {
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return cfg, fmt.Errorf("invalid .bsoncli.jsonc: %w", err)
		}
		if err := jsonUnmarshalStrict(standardized, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing .bsoncli.jsonc: %w", err)
		}
		return cfg, nil
	}

	if data, err := os.ReadFile(filepath.Join(dir, ".bsoncli.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing .bsoncli.yaml: %w", err)
		}
		return cfg, nil
	}

	return cfg, nil
}
