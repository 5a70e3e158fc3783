package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncImageResolution(ResolutionMatched)
	pr.IncImageResolution(ResolutionMatched)
	pr.IncImageResolution(ResolutionFallback)
	pr.ObserveGenerateDuration("manifest", 150*time.Millisecond)
	pr.IncGenerateOutcome("manifest", OutcomeSuccess)
	pr.SetPagesDiscovered(12)
	pr.SetAssetsDiscovered(30)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.imageResolutions.WithLabelValues("matched")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.imageResolutions.WithLabelValues("fallback")), 0)
	assert.InDelta(t, 12, testutil.ToFloat64(pr.pages), 0)
	assert.InDelta(t, 30, testutil.ToFloat64(pr.assets), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncImageResolution(ResolutionFallback)
		pr.ObserveGenerateDuration("sitemap", time.Second)
		pr.IncGenerateOutcome("sitemap", OutcomeFailed)
		pr.SetPagesDiscovered(1)
		pr.SetAssetsDiscovered(1)
	})
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncImageResolution(ResolutionMatched)
	r.SetPagesDiscovered(3)
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncImageResolution(ResolutionMatched)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docsite_og_image_resolutions_total")
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncGenerateOutcome("hugo", OutcomeSuccess)

	path := filepath.Join(t.TempDir(), "docsite.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `docsite_generate_outcomes_total{artifact="hugo",outcome="success"} 1`))

	require.Error(t, WriteTextfile(path, nil))
}
