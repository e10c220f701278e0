package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const configName = "jam"

// Load reads the scene configuration.
// Search order: customPath -> ~/.jam/configs/jam.{yaml,toml} -> ./configs/jam.{yaml,toml} -> embedded default.
// Files are decoded on top of the defaults, so partial files are fine.
// Only an explicit customPath produces read or parse errors.
func Load(customPath string) (JamConfig, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}

	for _, dir := range searchDirs() {
		for _, ext := range []string{".yaml", ".yml", ".toml"} {
			path := filepath.Join(dir, configName+ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if cfg, err := loadFile(path); err == nil && cfg.Validate() == nil {
				return cfg, nil
			}
		}
	}

	cfg := DefaultJamConfig()
	if err := yaml.Unmarshal(defaultJamYAML, &cfg); err != nil {
		return DefaultJamConfig(), nil
	}
	return cfg, nil
}

func loadFile(path string) (JamConfig, error) {
	cfg := DefaultJamConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := Decode(path, data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode unmarshals data into cfg, picking TOML for .toml paths and YAML otherwise.
func Decode(path string, data []byte, cfg *JamConfig) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// searchDirs lists the implicit config directories, user directory first.
func searchDirs() []string {
	dirs := make([]string, 0, 2)
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".jam", "configs"))
	}
	return append(dirs, "configs")
}
