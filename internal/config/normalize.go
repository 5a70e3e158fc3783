package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

func (r *NormalizationResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// enumNormalizer maps case-folded, trimmed input onto the enum values it knows.
type enumNormalizer[T ~string] struct {
	values   map[string]T
	fallback T
}

func newEnumNormalizer[T ~string](fallback T, values ...T) enumNormalizer[T] {
	m := make(map[string]T, len(values))
	for _, v := range values {
		m[string(v)] = v
	}
	return enumNormalizer[T]{values: m, fallback: fallback}
}

// normalize returns the canonical value and whether raw was recognized.
// Empty input is recognized as the fallback.
func (n enumNormalizer[T]) normalize(raw T) (T, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(string(raw)))
	if cleaned == "" {
		return n.fallback, true
	}
	v, ok := n.values[cleaned]
	if !ok {
		return n.fallback, false
	}
	return v, true
}

var (
	logLevels       = newEnumNormalizer(LogLevelInfo, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)
	logFormats      = newEnumNormalizer(LogFormatText, LogFormatText, LogFormatJSON)
	manifestFormats = newEnumNormalizer(ManifestJSON, ManifestJSON, ManifestYAML)
	analytics       = newEnumNormalizer(AnalyticsNone, AnalyticsNone, AnalyticsGoogle)
	lastMods        = newEnumNormalizer(LastModNone, LastModNone, LastModGit)
)

func normalizeEnum[T ~string](field string, v *T, n enumNormalizer[T], res *NormalizationResult) {
	got, ok := n.normalize(*v)
	switch {
	case !ok:
		res.warnf("%s: unknown value %q, using %q", field, *v, got)
	case got != *v && strings.TrimSpace(string(*v)) != "":
		res.warnf("%s: normalized %q to %q", field, *v, got)
	}
	*v = got
}

// Normalize performs canonicalization prior to default application.
// It mutates c in place and reports coercions as warnings; it never fails.
func Normalize(c *Config) *NormalizationResult {
	res := &NormalizationResult{}
	if c == nil {
		return res
	}

	c.Site.Title = strings.TrimSpace(c.Site.Title)
	for i := range c.Locales {
		normalizeLocale(&c.Locales[i], res)
	}

	c.Sitemap.Hostname = strings.TrimRight(strings.TrimSpace(c.Sitemap.Hostname), "/")
	c.OGImage.Fallback = strings.TrimSpace(c.OGImage.Fallback)
	c.Analytics.MeasurementID = strings.TrimSpace(c.Analytics.MeasurementID)

	normalizeEnum("analytics.provider", &c.Analytics.Provider, analytics, res)
	if c.Analytics.Provider == AnalyticsGoogle && c.Analytics.MeasurementID == "" {
		res.warnf("analytics.provider: google without measurement_id, analytics disabled")
		c.Analytics.Provider = AnalyticsNone
	}
	normalizeEnum("sitemap.lastmod", &c.Sitemap.LastMod, lastMods, res)
	normalizeEnum("logging.level", &c.Logging.Level, logLevels, res)
	normalizeEnum("logging.format", &c.Logging.Format, logFormats, res)
	normalizeEnum("output.manifest_format", &c.Output.ManifestFormat, manifestFormats, res)

	for i := range c.Head {
		c.Head[i].Tag = strings.ToLower(strings.TrimSpace(c.Head[i].Tag))
	}
	return res
}

func normalizeLocale(l *Locale, res *NormalizationResult) {
	l.Key = strings.TrimSpace(l.Key)
	l.Lang = strings.TrimSpace(l.Lang)
	if tag, err := language.Parse(l.Lang); err == nil {
		if canonical := tag.String(); canonical != l.Lang {
			res.warnf("locales[%s].lang: normalized %q to %q", l.Key, l.Lang, canonical)
			l.Lang = canonical
		}
	}

	link := strings.TrimSpace(l.Link)
	if link != "" {
		if !strings.HasPrefix(link, "/") {
			link = "/" + link
		}
		if !strings.HasSuffix(link, "/") {
			link += "/"
		}
	}
	l.Link = link
}
