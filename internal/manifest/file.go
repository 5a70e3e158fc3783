package manifest

import (
	"os"
	"path/filepath"

	"github.com/vrm-addon-for-blender/docsite/internal/config"
	ferrors "github.com/vrm-addon-for-blender/docsite/internal/foundation/errors"
)

// WriteFile encodes m and writes it to path, creating parent directories.
func WriteFile(path string, m *HeadManifest, format config.ManifestFormat) error {
	data, err := m.Encode(format)
	if err != nil {
		return ferrors.BuildError("encode head manifest").WithCause(err).Build()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ferrors.FileSystemError("create manifest directory").WithContext("path", path).WithCause(err).Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.FileSystemError("write head manifest").WithContext("path", path).WithCause(err).Build()
	}
	return nil
}

// ReadFile loads a manifest written by WriteFile.
func ReadFile(path string, format config.ManifestFormat) (*HeadManifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ferrors.NotFoundError("head manifest not found").WithContext("path", path).Build()
	}
	if err != nil {
		return nil, ferrors.FileSystemError("read head manifest").WithContext("path", path).WithCause(err).Build()
	}
	m, err := Decode(data, format)
	if err != nil {
		return nil, ferrors.BuildError("decode head manifest").WithContext("path", path).WithCause(err).Build()
	}
	return m, nil
}
