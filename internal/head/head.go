// Package head computes the <head> metadata docsite hands to the site framework:
// the site-wide elements every page shares and the per-page og:image tag.
package head

import (
	"fmt"
	"strings"

	"github.com/vrm-addon-for-blender/docsite/internal/config"
	"github.com/vrm-addon-for-blender/docsite/internal/metrics"
	"github.com/vrm-addon-for-blender/docsite/internal/ogimage"
	"github.com/vrm-addon-for-blender/docsite/internal/pages"
)

// OGImageName is the metadata name social-media preview renderers read.
const OGImageName = "og:image"

// Tag is a metadata tag appended to a page's generated head.
type Tag struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// PageHead is the per-page metadata of one discovered page.
type PageHead struct {
	Page pages.Page
	Tags []Tag
}

const gtagLoaderURL = "https://www.googletagmanager.com/gtag/js?id="

// SiteElements returns the elements injected into every page: the configured
// head entries followed by the analytics snippet when analytics is enabled.
func SiteElements(cfg *config.Config) []config.HeadElement {
	out := make([]config.HeadElement, 0, len(cfg.Head)+2)
	out = append(out, cfg.Head...)
	if cfg.Analytics.Enabled() && cfg.Analytics.Provider == config.AnalyticsGoogle {
		out = append(out, googleTag(cfg.Analytics.MeasurementID)...)
	}
	return out
}

func googleTag(id string) []config.HeadElement {
	return []config.HeadElement{
		{Tag: "script", Attrs: map[string]string{"async": "", "src": gtagLoaderURL + id}},
		{Tag: "script", Content: strings.Join([]string{
			"window.dataLayer = window.dataLayer || [];",
			"function gtag(){dataLayer.push(arguments);}",
			"gtag('js', new Date());",
			fmt.Sprintf("gtag('config', '%s');", id),
		}, "\n")},
	}
}

// Builder computes page tags for a site.
type Builder struct {
	resolver *ogimage.Resolver
	hostname string
}

// NewBuilder returns a Builder using cfg's og:image settings.
func NewBuilder(cfg *config.Config) *Builder {
	b := &Builder{resolver: ogimage.NewResolver(cfg.OGImage.Fallback)}
	if cfg.OGImage.Absolute {
		b.hostname = cfg.Sitemap.Hostname
	}
	return b
}

// WithRecorder reports each image resolution to rec.
func (b *Builder) WithRecorder(rec metrics.Recorder) *Builder {
	b.resolver.WithRecorder(rec)
	return b
}

// Transform returns the tags appended to the page at relativePath:
// exactly one og:image tag.
func (b *Builder) Transform(relativePath string, assets []string) []Tag {
	image := b.resolver.Resolve(relativePath, assets)
	if b.hostname != "" && strings.HasPrefix(image, "/") {
		image = b.hostname + image
	}
	return []Tag{{Name: OGImageName, Value: image}}
}

// Build computes the tags of every page in site, in page order.
func (b *Builder) Build(site *pages.Site) []PageHead {
	out := make([]PageHead, 0, len(site.Pages))
	for _, p := range site.Pages {
		out = append(out, PageHead{Page: p, Tags: b.Transform(p.RelativePath, site.Assets)})
	}
	return out
}
