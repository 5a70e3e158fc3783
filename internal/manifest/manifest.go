package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/vrm-addon-for-blender/docsite/internal/config"
	"github.com/vrm-addon-for-blender/docsite/internal/head"
)

// HeadManifest is the per-page head metadata handed to the site framework as a
// data file. Templates look pages up by Path and append Tags to the page head.
type HeadManifest struct {
	ID         string      `json:"id" yaml:"id"`
	Timestamp  time.Time   `json:"timestamp" yaml:"timestamp"`
	ConfigHash string      `json:"config_hash" yaml:"config_hash"`
	Site       SiteHead    `json:"site" yaml:"site"`
	Pages      []PageEntry `json:"pages" yaml:"pages"`
}

// SiteHead holds the elements shared by every page.
type SiteHead struct {
	Elements []config.HeadElement `json:"elements" yaml:"elements"`
}

// PageEntry is the head metadata of one page.
type PageEntry struct {
	Path   string     `json:"path" yaml:"path"`
	URL    string     `json:"url" yaml:"url"`
	Locale string     `json:"locale" yaml:"locale"`
	Tags   []head.Tag `json:"tags" yaml:"tags"`
}

// New assembles a manifest with a fresh ID from the computed page heads.
func New(cfg *config.Config, heads []head.PageHead) (*HeadManifest, error) {
	configHash, err := cfg.Hash()
	if err != nil {
		return nil, err
	}
	entries := make([]PageEntry, 0, len(heads))
	for _, h := range heads {
		entries = append(entries, PageEntry{
			Path:   h.Page.RelativePath,
			URL:    h.Page.URL,
			Locale: h.Page.Locale,
			Tags:   h.Tags,
		})
	}
	return &HeadManifest{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		ConfigHash: configHash,
		Site:       SiteHead{Elements: head.SiteElements(cfg)},
		Pages:      entries,
	}, nil
}

// Lookup returns the entry for a content-relative page path.
func (m *HeadManifest) Lookup(path string) (PageEntry, bool) {
	for _, p := range m.Pages {
		if p.Path == path {
			return p, true
		}
	}
	return PageEntry{}, false
}

// Encode serializes the manifest in the requested format.
func (m *HeadManifest) Encode(format config.ManifestFormat) ([]byte, error) {
	switch format {
	case config.ManifestYAML:
		data, err := yaml.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("marshal manifest: %w", err)
		}
		return data, nil
	case config.ManifestJSON, "":
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal manifest: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}
}

// Decode parses a manifest previously produced by Encode.
func Decode(data []byte, format config.ManifestFormat) (*HeadManifest, error) {
	var m HeadManifest
	var err error
	switch format {
	case config.ManifestYAML:
		err = yaml.Unmarshal(data, &m)
	case config.ManifestJSON, "":
		err = json.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the manifest content, ignoring ID and Timestamp.
// Two generations over an unchanged tree and configuration hash identically.
func (m *HeadManifest) Hash() (string, error) {
	hashInput := struct {
		ConfigHash string      `json:"config_hash"`
		Site       SiteHead    `json:"site"`
		Pages      []PageEntry `json:"pages"`
	}{
		ConfigHash: m.ConfigHash,
		Site:       m.Site,
		Pages:      m.Pages,
	}
	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}
