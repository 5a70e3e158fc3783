package metrics

import "time"

// ResolutionLabel enumerates og:image resolution outcomes.
type ResolutionLabel string

const (
	ResolutionMatched  ResolutionLabel = "matched"
	ResolutionFallback ResolutionLabel = "fallback"
)

// OutcomeLabel enumerates artifact generation outcomes.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks for site metadata generation. Implementations
// may forward to Prometheus or anything else; NoopRecorder is the default.
type Recorder interface {
	IncImageResolution(result ResolutionLabel)
	ObserveGenerateDuration(artifact string, d time.Duration)
	IncGenerateOutcome(artifact string, outcome OutcomeLabel)
	SetPagesDiscovered(n int)
	SetAssetsDiscovered(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncImageResolution(ResolutionLabel)            {}
func (NoopRecorder) ObserveGenerateDuration(string, time.Duration) {}
func (NoopRecorder) IncGenerateOutcome(string, OutcomeLabel)       {}
func (NoopRecorder) SetPagesDiscovered(int)                        {}
func (NoopRecorder) SetAssetsDiscovered(int)                       {}
