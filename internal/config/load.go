package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "github.com/vrm-addon-for-blender/docsite/internal/foundation/errors"
	"github.com/vrm-addon-for-blender/docsite/internal/logfields"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultsYAML returns the built-in configuration document.
func DefaultsYAML() []byte {
	return bytes.Clone(defaultsYAML)
}

// Default returns the built-in site configuration with environment variables expanded,
// normalized, defaulted and validated.
func Default() (*Config, error) {
	return Load("")
}

// Load builds the effective configuration: the built-in defaults overlaid with
// the YAML file at configPath. An empty configPath uses the defaults alone.
// Environment variables are read from .env files first and expanded in both documents.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		slog.Warn("Failed to load .env file", logfields.Error(err))
	}

	var cfg Config
	if err := decodeInto(&cfg, defaultsYAML); err != nil {
		return nil, ferrors.InternalError("parse built-in configuration").WithCause(err).Build()
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if os.IsNotExist(err) {
			return nil, ferrors.NotFoundError("configuration file not found").
				WithContext("path", configPath).Build()
		}
		if err != nil {
			return nil, ferrors.FileSystemError("read configuration file").
				WithContext("path", configPath).WithCause(err).Build()
		}
		if err := decodeInto(&cfg, data); err != nil {
			return nil, ferrors.ConfigError("parse configuration file").
				WithContext("path", configPath).WithCause(err).Build()
		}
	}

	if cfg.Version != CurrentVersion {
		return nil, ferrors.ConfigError(fmt.Sprintf("unsupported configuration version %q (expected %q)", cfg.Version, CurrentVersion)).
			WithContext("path", configPath).Build()
	}

	res := Normalize(&cfg)
	for _, w := range res.Warnings {
		slog.Warn("Config normalization", slog.String("detail", w))
	}
	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decodeInto expands ${VAR} references and unmarshals data over cfg, so keys
// present in data replace the current values and absent keys keep them.
// Lists are replaced as a whole.
func decodeInto(cfg *Config, data []byte) error {
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewBufferString(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
