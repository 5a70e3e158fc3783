package ogimage

import "github.com/vrm-addon-for-blender/docsite/internal/metrics"

// Resolver resolves og:image paths and reports each outcome to a metrics.Recorder.
// The returned paths are identical to ResolveWithFallback.
type Resolver struct {
	fallback string
	recorder metrics.Recorder
}

// NewResolver returns a Resolver using fallback when no asset matches.
// An empty fallback means DefaultImage.
func NewResolver(fallback string) *Resolver {
	if fallback == "" {
		fallback = DefaultImage
	}
	return &Resolver{fallback: fallback, recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder.
func (r *Resolver) WithRecorder(rec metrics.Recorder) *Resolver {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	r.recorder = rec
	return r
}

// Fallback returns the image used when nothing matches.
func (r *Resolver) Fallback() string { return r.fallback }

// Resolve returns the og:image path for relativePath.
func (r *Resolver) Resolve(relativePath string, assets []string) string {
	image, ok := lookup(relativePath, assets)
	if !ok {
		r.recorder.IncImageResolution(metrics.ResolutionFallback)
		return r.fallback
	}
	r.recorder.IncImageResolution(metrics.ResolutionMatched)
	return image
}
