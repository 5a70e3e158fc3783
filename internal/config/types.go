package config

import (
	"time"

	"golang.org/x/text/language"
)

// CurrentVersion is the only configuration schema version accepted by Load.
const CurrentVersion = "1"

// RootLocaleKey identifies the locale served at the site root.
const RootLocaleKey = "root"

// Config is the complete docsite configuration: the site's declarative metadata
// plus the paths and knobs used when generating artifacts for the site framework.
type Config struct {
	Version   string          `yaml:"version"`
	Site      SiteConfig      `yaml:"site"`
	Locales   []Locale        `yaml:"locales"`
	Head      []HeadElement   `yaml:"head,omitempty"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Social    []SocialLink    `yaml:"social,omitempty"`
	Sitemap   SitemapConfig   `yaml:"sitemap"`
	OGImage   OGImageConfig   `yaml:"og_image"`
	Paths     PathsConfig     `yaml:"paths"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics,omitempty"`
	Watch     WatchConfig     `yaml:"watch,omitempty"`
}

// SiteConfig holds site-wide metadata shared by all locales.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Logo        string `yaml:"logo,omitempty"`
}

// Locale describes one language version of the site.
// The root locale is served at "/"; every other locale lives under Link (e.g. "/ja/").
type Locale struct {
	Key         string         `yaml:"key"`
	Label       string         `yaml:"label"`
	Lang        string         `yaml:"lang"`
	Link        string         `yaml:"link,omitempty"`
	Title       string         `yaml:"title,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Nav         []NavItem      `yaml:"nav,omitempty"`
	Sidebar     []SidebarGroup `yaml:"sidebar,omitempty"`
}

// IsRoot reports whether l is served at the site root.
func (l Locale) IsRoot() bool { return l.Key == RootLocaleKey }

// Tag returns the parsed BCP 47 language tag. Lang is validated at load time,
// so an unparsable value only occurs for hand-built configs and yields language.Und.
func (l Locale) Tag() language.Tag {
	tag, err := language.Parse(l.Lang)
	if err != nil {
		return language.Und
	}
	return tag
}

// NavItem is a navigation entry. Items turns it into a dropdown.
type NavItem struct {
	Text  string    `yaml:"text"`
	Link  string    `yaml:"link,omitempty"`
	Items []NavItem `yaml:"items,omitempty"`
}

// SidebarGroup is a titled group of sidebar links.
type SidebarGroup struct {
	Text      string    `yaml:"text"`
	Collapsed bool      `yaml:"collapsed,omitempty"`
	Items     []NavItem `yaml:"items"`
}

// HeadElement is a site-wide tag injected into every page's <head>.
type HeadElement struct {
	Tag     string            `yaml:"tag" json:"tag"`
	Attrs   map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	Content string            `yaml:"content,omitempty" json:"content,omitempty"`
}

// AnalyticsProvider selects the analytics snippet injected into the head.
type AnalyticsProvider string

const (
	AnalyticsNone   AnalyticsProvider = "none"
	AnalyticsGoogle AnalyticsProvider = "google"
)

// AnalyticsConfig declares the analytics script injection.
type AnalyticsConfig struct {
	Provider      AnalyticsProvider `yaml:"provider"`
	MeasurementID string            `yaml:"measurement_id,omitempty"`
}

// Enabled reports whether a snippet should be injected.
func (a AnalyticsConfig) Enabled() bool {
	return a.Provider != AnalyticsNone && a.MeasurementID != ""
}

// SocialLink is an icon link shown in the navigation bar.
type SocialLink struct {
	Icon string `yaml:"icon"`
	Link string `yaml:"link"`
}

// LastModSource selects where sitemap <lastmod> values come from.
type LastModSource string

const (
	LastModNone LastModSource = "none"
	// LastModGit uses the time of the last commit touching each page.
	LastModGit LastModSource = "git"
)

// SitemapConfig configures sitemap generation.
type SitemapConfig struct {
	Hostname string        `yaml:"hostname"`
	LastMod  LastModSource `yaml:"lastmod,omitempty"`
}

// OGImageConfig tunes og:image resolution.
type OGImageConfig struct {
	// Fallback is advertised when no preview asset matches a page.
	Fallback string `yaml:"fallback,omitempty"`
	// Absolute prefixes resolved images with the sitemap hostname.
	Absolute bool `yaml:"absolute,omitempty"`
}

// PathsConfig locates the site sources.
type PathsConfig struct {
	Content string   `yaml:"content"`
	Public  string   `yaml:"public"`
	Ignore  []string `yaml:"ignore,omitempty"`
}

// ManifestFormat selects the head manifest encoding.
type ManifestFormat string

const (
	ManifestJSON ManifestFormat = "json"
	ManifestYAML ManifestFormat = "yaml"
)

// OutputConfig locates the generated artifacts. Relative paths are resolved
// against Directory.
type OutputConfig struct {
	Directory      string         `yaml:"directory"`
	Manifest       string         `yaml:"manifest"`
	ManifestFormat ManifestFormat `yaml:"manifest_format"`
	HugoConfig     string         `yaml:"hugo_config"`
	Sitemap        string         `yaml:"sitemap"`
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Addr serves /metrics in watch mode when set (e.g. ":9090").
	Addr string `yaml:"addr,omitempty"`
	// Textfile receives a snapshot after one-shot runs when set.
	Textfile string `yaml:"textfile,omitempty"`
}

// WatchConfig tunes watch mode. Zero values use the command defaults.
type WatchConfig struct {
	// Debounce is the quiet period before regenerating.
	Debounce time.Duration `yaml:"debounce,omitempty"`
	// Resync regenerates on this interval even without file events. Zero disables it.
	Resync time.Duration `yaml:"resync,omitempty"`
}
