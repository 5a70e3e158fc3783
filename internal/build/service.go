package build

import (
	"context"
	"time"

	"github.com/vrm-addon-for-blender/docsite/internal/config"
)

// Service is the canonical interface for generating site artifacts.
type Service interface {
	// Run discovers the site and writes the requested artifacts.
	Run(ctx context.Context, req Request) (*Result, error)
}

// Artifact names one generated file.
type Artifact string

const (
	ArtifactManifest Artifact = "manifest"
	ArtifactHugo     Artifact = "hugo"
	ArtifactSitemap  Artifact = "sitemap"
)

// AllArtifacts lists every artifact in generation order.
var AllArtifacts = []Artifact{ArtifactManifest, ArtifactHugo, ArtifactSitemap}

// Request contains all inputs of one generation run.
type Request struct {
	// Config is the effective configuration.
	Config *config.Config

	// Artifacts selects what to write. Empty means AllArtifacts.
	Artifacts []Artifact

	// Explain logs the group key and resolved image of every page.
	Explain bool

	// SkipIfUnchanged keeps an existing manifest whose content hash matches
	// the new one, so its ID and timestamp stay stable across no-op runs.
	SkipIfUnchanged bool
}

// Result contains the outcome of a generation run.
type Result struct {
	Status Status

	// Pages and Assets count what discovery found.
	Pages  int
	Assets int

	// Written maps each written artifact to its path.
	Written map[Artifact]string

	// ManifestHash is the content hash of the generated head manifest.
	ManifestHash string

	// ManifestUnchanged is true when the manifest write was skipped.
	ManifestUnchanged bool

	Duration  time.Duration
	StartTime time.Time
	EndTime   time.Time
}

// Status represents the outcome of a run.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsSuccess reports whether the run completed.
func (s Status) IsSuccess() bool { return s == StatusSuccess }
