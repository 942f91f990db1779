package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appName         = "smftool"
	localConfigFile = "smftool.yaml" // looked up in the working directory
	configFileName  = "config.yaml"  // looked up in ConfigDir
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that yaml cannot constrain.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Texture.Format) {
	case "png", "webp", "tga":
	default:
		return fmt.Errorf("unsupported texture format %q (want png, webp or tga)", c.Texture.Format)
	}
	if c.Export.SwitchHeight < 0 {
		return fmt.Errorf("negative LOD switch height %f", c.Export.SwitchHeight)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	for _, path := range []string{localConfigFile, filepath.Join(ConfigDir(), configFileName)} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName)
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// loadFromFile merges a YAML file over cfg. Unknown keys are rejected so a
// misspelled option is not silently ignored.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
