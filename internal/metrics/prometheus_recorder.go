package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	imageResolutions *prom.CounterVec
	generateDuration *prom.HistogramVec
	generateOutcomes *prom.CounterVec
	pages            prom.Gauge
	assets           prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.imageResolutions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "og_image_resolutions_total",
			Help:      "og:image resolutions by outcome",
		}, []string{"result"})
		pr.generateDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "generate_duration_seconds",
			Help:      "Duration of artifact generation",
			Buckets:   prom.DefBuckets,
		}, []string{"artifact"})
		pr.generateOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "generate_outcomes_total",
			Help:      "Artifact generation outcomes",
		}, []string{"artifact", "outcome"})
		pr.pages = prom.NewGauge(prom.GaugeOpts{
			Namespace: "docsite",
			Name:      "pages_discovered",
			Help:      "Pages found by the last discovery pass",
		})
		pr.assets = prom.NewGauge(prom.GaugeOpts{
			Namespace: "docsite",
			Name:      "assets_discovered",
			Help:      "Static assets found by the last discovery pass",
		})
		reg.MustRegister(pr.imageResolutions, pr.generateDuration, pr.generateOutcomes, pr.pages, pr.assets)
	})
	return pr
}

func (p *PrometheusRecorder) IncImageResolution(result ResolutionLabel) {
	if p == nil || p.imageResolutions == nil {
		return
	}
	p.imageResolutions.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveGenerateDuration(artifact string, d time.Duration) {
	if p == nil || p.generateDuration == nil {
		return
	}
	p.generateDuration.WithLabelValues(artifact).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncGenerateOutcome(artifact string, outcome OutcomeLabel) {
	if p == nil || p.generateOutcomes == nil {
		return
	}
	p.generateOutcomes.WithLabelValues(artifact, string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetPagesDiscovered(n int) {
	if p == nil || p.pages == nil {
		return
	}
	p.pages.Set(float64(n))
}

func (p *PrometheusRecorder) SetAssetsDiscovered(n int) {
	if p == nil || p.assets == nil {
		return
	}
	p.assets.Set(float64(n))
}
