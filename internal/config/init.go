package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "github.com/vrm-addon-for-blender/docsite/internal/foundation/errors"
)

// Init writes the built-in configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ferrors.FileSystemError("create configuration directory").WithContext("path", dir).WithCause(err).Build()
		}
	}
	if err := os.WriteFile(configPath, defaultsYAML, 0o644); err != nil {
		return ferrors.FileSystemError("write configuration file").WithContext("path", configPath).WithCause(err).Build()
	}
	return nil
}

// Hash returns a stable digest of the effective configuration.
func (c *Config) Hash() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config for hash: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// Locale returns the locale with the given key.
func (c *Config) Locale(key string) (Locale, bool) {
	for _, l := range c.Locales {
		if l.Key == key {
			return l, true
		}
	}
	return Locale{}, false
}

// RootLocale returns the locale served at "/".
func (c *Config) RootLocale() Locale {
	l, _ := c.Locale(RootLocaleKey)
	return l
}

// OutputPath resolves an output-relative artifact path.
func (c *Config) OutputPath(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Output.Directory, rel)
}
