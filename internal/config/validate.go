package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/language"

	ferrors "github.com/vrm-addon-for-blender/docsite/internal/foundation/errors"
)

var allowedHeadTags = map[string]bool{"link": true, "meta": true, "script": true, "style": true}

// The measurement ID is interpolated into an inline script.
var measurementIDPattern = regexp.MustCompile(`^G-[A-Z0-9]+$`)

// Validate checks a normalized, defaulted configuration.
func Validate(c *Config) error {
	if c == nil {
		return ferrors.InternalError("configuration is nil").Build()
	}
	v := &validator{cfg: c}
	for _, step := range []func() error{v.site, v.locales, v.head, v.analytics, v.sitemap, v.ogImage, v.output} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

type validator struct {
	cfg *Config
}

func invalid(field, message string) *ferrors.ErrorBuilder {
	return ferrors.ValidationError(field+": "+message).WithContext("field", field)
}

func (v *validator) site() error {
	if v.cfg.Site.Title == "" {
		return invalid("site.title", "must not be empty").Build()
	}
	return nil
}

func (v *validator) locales() error {
	if len(v.cfg.Locales) == 0 {
		return invalid("locales", "at least one locale is required").Build()
	}
	seenKeys := map[string]bool{}
	seenLinks := map[string]string{}
	roots := 0
	for i, l := range v.cfg.Locales {
		field := fmt.Sprintf("locales[%d]", i)
		if l.Key == "" {
			return invalid(field+".key", "must not be empty").Build()
		}
		if strings.Contains(l.Key, "/") {
			return invalid(field+".key", fmt.Sprintf("%q must be a single path segment", l.Key)).Build()
		}
		if seenKeys[l.Key] {
			return invalid(field+".key", fmt.Sprintf("duplicate locale %q", l.Key)).Build()
		}
		seenKeys[l.Key] = true
		if l.IsRoot() {
			roots++
		}
		if l.Label == "" {
			return invalid(field+".label", "must not be empty").Build()
		}
		if _, err := language.Parse(l.Lang); err != nil {
			return invalid(field+".lang", fmt.Sprintf("%q is not a BCP 47 language tag", l.Lang)).
				WithCause(err).Build()
		}
		if other, dup := seenLinks[l.Link]; dup {
			return invalid(field+".link", fmt.Sprintf("%q already used by locale %q", l.Link, other)).Build()
		}
		seenLinks[l.Link] = l.Key
		if l.IsRoot() && l.Link != "/" {
			return invalid(field+".link", "root locale must be served at /").Build()
		}
		if err := validateNav(field+".nav", l.Nav); err != nil {
			return err
		}
		for j, g := range l.Sidebar {
			gfield := fmt.Sprintf("%s.sidebar[%d]", field, j)
			if g.Text == "" {
				return invalid(gfield+".text", "must not be empty").Build()
			}
			if err := validateNav(gfield+".items", g.Items); err != nil {
				return err
			}
		}
	}
	if roots != 1 {
		return invalid("locales", fmt.Sprintf("exactly one %q locale is required, found %d", RootLocaleKey, roots)).Build()
	}
	return nil
}

func validateNav(field string, items []NavItem) error {
	for i, item := range items {
		f := fmt.Sprintf("%s[%d]", field, i)
		if item.Text == "" {
			return invalid(f+".text", "must not be empty").Build()
		}
		if item.Link == "" && len(item.Items) == 0 {
			return invalid(f, "needs a link or nested items").Build()
		}
		if err := validateNav(f+".items", item.Items); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) head() error {
	for i, h := range v.cfg.Head {
		if !allowedHeadTags[h.Tag] {
			return invalid(fmt.Sprintf("head[%d].tag", i), fmt.Sprintf("unsupported tag %q", h.Tag)).Build()
		}
	}
	return nil
}

func (v *validator) analytics() error {
	a := v.cfg.Analytics
	if a.Provider == AnalyticsGoogle && !measurementIDPattern.MatchString(a.MeasurementID) {
		return invalid("analytics.measurement_id", fmt.Sprintf("%q is not a Google measurement ID (G-XXXXXXXX)", a.MeasurementID)).Build()
	}
	return nil
}

func (v *validator) sitemap() error {
	host := v.cfg.Sitemap.Hostname
	if host == "" {
		return invalid("sitemap.hostname", "must not be empty").Build()
	}
	u, err := url.Parse(host)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return invalid("sitemap.hostname", fmt.Sprintf("%q must be an absolute http(s) URL", host)).Build()
	}
	return nil
}

func (v *validator) ogImage() error {
	fb := v.cfg.OGImage.Fallback
	if strings.HasPrefix(fb, "/") || strings.HasPrefix(fb, "https://") || strings.HasPrefix(fb, "http://") {
		return nil
	}
	return invalid("og_image.fallback", fmt.Sprintf("%q must be a site path or absolute URL", fb)).Build()
}

func (v *validator) output() error {
	if v.cfg.Paths.Content == v.cfg.Paths.Public {
		return invalid("paths.public", "must differ from paths.content").Build()
	}
	if v.cfg.Watch.Debounce < 0 {
		return invalid("watch.debounce", "must not be negative").Build()
	}
	if v.cfg.Watch.Resync < 0 {
		return invalid("watch.resync", "must not be negative").Build()
	}
	return nil
}
