package head

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrm-addon-for-blender/docsite/internal/config"
	"github.com/vrm-addon-for-blender/docsite/internal/metrics"
	"github.com/vrm-addon-for-blender/docsite/internal/pages"
)

func TestTransform(t *testing.T) {
	b := NewBuilder(&config.Config{OGImage: config.OGImageConfig{Fallback: "/logo.png"}})

	tags := b.Transform("ja/ui/import_scene_vrm/index.md", []string{"/ja/ui/import_scene_vrm.gif", "/other.png"})
	assert.Equal(t, []Tag{{Name: "og:image", Value: "/ja/ui/import_scene_vrm.gif"}}, tags)

	tags = b.Transform("create-humanoid-vrm-from-scratch.md", []string{"/create_humanoid_vrm_from_scratch.gif"})
	assert.Equal(t, []Tag{{Name: "og:image", Value: "/logo.png"}}, tags)
}

func TestTransform_Absolute(t *testing.T) {
	b := NewBuilder(&config.Config{
		OGImage: config.OGImageConfig{Fallback: "/logo.png", Absolute: true},
		Sitemap: config.SitemapConfig{Hostname: "https://vrm-addon-for-blender.info"},
	})

	tags := b.Transform("en/ui/index.md", nil)
	assert.Equal(t, "https://vrm-addon-for-blender.info/logo.png", tags[0].Value)

	b = NewBuilder(&config.Config{
		OGImage: config.OGImageConfig{Fallback: "https://cdn.example.org/og.png", Absolute: true},
		Sitemap: config.SitemapConfig{Hostname: "https://vrm-addon-for-blender.info"},
	})
	assert.Equal(t, "https://cdn.example.org/og.png", b.Transform("index.md", nil)[0].Value)
}

type resolutionCounter struct {
	metrics.NoopRecorder
	n map[metrics.ResolutionLabel]int
}

func (r *resolutionCounter) IncImageResolution(l metrics.ResolutionLabel) { r.n[l]++ }

func TestBuild_OneTagPerPage(t *testing.T) {
	rec := &resolutionCounter{n: map[metrics.ResolutionLabel]int{}}
	b := NewBuilder(&config.Config{}).WithRecorder(rec)
	site := &pages.Site{
		Pages: []pages.Page{
			{RelativePath: "index.md"},
			{RelativePath: "ui/import_scene_vrm/index.md"},
			{RelativePath: "ja/ui/import_scene_vrm/index.md"},
			{RelativePath: "ja/ui/export_scene_vrm/index.md"},
		},
		Assets: []string{"/assets/import_scene_vrm.Bx1.gif", "/assets/import_scene_vrm.Zz9.gif"},
	}

	heads := b.Build(site)
	require.Len(t, heads, 4)
	for _, h := range heads {
		require.Len(t, h.Tags, 1, h.Page.RelativePath)
		assert.Equal(t, OGImageName, h.Tags[0].Name)
	}
	assert.Equal(t, "/logo.png", heads[0].Tags[0].Value)
	assert.Equal(t, "/assets/import_scene_vrm.Bx1.gif", heads[1].Tags[0].Value)
	assert.Equal(t, "/assets/import_scene_vrm.Bx1.gif", heads[2].Tags[0].Value)
	assert.Equal(t, "/logo.png", heads[3].Tags[0].Value)
	assert.Equal(t, 2, rec.n[metrics.ResolutionMatched])
	assert.Equal(t, 2, rec.n[metrics.ResolutionFallback])
}

func TestSiteElements(t *testing.T) {
	cfg := &config.Config{
		Head: []config.HeadElement{{Tag: "link", Attrs: map[string]string{"rel": "icon", "href": "/favicon.ico"}}},
	}

	assert.Equal(t, cfg.Head, SiteElements(cfg))

	cfg.Analytics = config.AnalyticsConfig{Provider: config.AnalyticsGoogle, MeasurementID: "G-ABC123"}
	elems := SiteElements(cfg)
	require.Len(t, elems, 3)
	assert.Equal(t, "https://www.googletagmanager.com/gtag/js?id=G-ABC123", elems[1].Attrs["src"])
	assert.Contains(t, elems[1].Attrs, "async")
	assert.Contains(t, elems[2].Content, "gtag('config', 'G-ABC123');")
	assert.Len(t, cfg.Head, 1, "configured head must not be modified")
}
