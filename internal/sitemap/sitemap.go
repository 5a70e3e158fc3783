// Package sitemap writes sitemap.xml for the discovered pages, linking the
// translations of each page through hreflang alternates.
package sitemap

import (
	"encoding/xml"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vrm-addon-for-blender/docsite/internal/config"
	ferrors "github.com/vrm-addon-for-blender/docsite/internal/foundation/errors"
	"github.com/vrm-addon-for-blender/docsite/internal/logfields"
	"github.com/vrm-addon-for-blender/docsite/internal/pages"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNS   = "http://www.w3.org/1999/xhtml"

	// XDefault is the hreflang of the alternate served to unmatched languages.
	XDefault = "x-default"
)

// URLSet is the sitemap document.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	XHTML   string   `xml:"xmlns:xhtml,attr"`
	URLs    []URL    `xml:"url"`
}

// URL is one page entry.
type URL struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	Alternates []Alternate `xml:"xhtml:link,omitempty"`
}

// Alternate links a page to one of its translations.
type Alternate struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// LastModFunc reports when a page last changed. A nil LastModFunc omits <lastmod>.
type LastModFunc func(p pages.Page) (time.Time, bool)

// Build returns the sitemap of pages. Entries follow page order; alternates
// follow the locale order of cfg and end with x-default when the root locale
// has a translation. Pages are translations of each other when their paths
// relative to the locale root are equal.
func Build(cfg *config.Config, list []pages.Page, lastmod LastModFunc) *URLSet {
	byLocalPath := map[string][]pages.Page{}
	for _, p := range list {
		byLocalPath[p.LocalPath] = append(byLocalPath[p.LocalPath], p)
	}

	set := &URLSet{XMLNS: sitemapNS, XHTML: xhtmlNS, URLs: make([]URL, 0, len(list))}
	for _, p := range list {
		entry := URL{Loc: cfg.Sitemap.Hostname + p.URL}
		if lastmod != nil {
			if t, ok := lastmod(p); ok {
				entry.LastMod = t.UTC().Format(time.RFC3339)
			}
		}
		if group := byLocalPath[p.LocalPath]; len(group) > 1 {
			entry.Alternates = alternates(cfg, group)
		}
		set.URLs = append(set.URLs, entry)
	}
	return set
}

func alternates(cfg *config.Config, group []pages.Page) []Alternate {
	var out []Alternate
	var rootHref string
	for _, l := range cfg.Locales {
		for _, p := range group {
			if p.Locale != l.Key {
				continue
			}
			href := cfg.Sitemap.Hostname + p.URL
			out = append(out, Alternate{Rel: "alternate", Hreflang: l.Tag().String(), Href: href})
			if l.IsRoot() {
				rootHref = href
			}
			break
		}
	}
	if rootHref != "" {
		out = append(out, Alternate{Rel: "alternate", Hreflang: XDefault, Href: rootHref})
	}
	return out
}

// Encode renders set as an indented XML document.
func Encode(set *URLSet) ([]byte, error) {
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, ferrors.BuildError("encode sitemap").WithCause(err).Build()
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	return append(out, '\n'), nil
}

// Write builds and writes the sitemap to cfg's output path and returns that path.
func Write(cfg *config.Config, list []pages.Page, lastmod LastModFunc) (string, error) {
	data, err := Encode(Build(cfg, list, lastmod))
	if err != nil {
		return "", err
	}
	target := cfg.OutputPath(cfg.Output.Sitemap)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", ferrors.FileSystemError("create sitemap directory").WithContext("path", target).WithCause(err).Build()
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", ferrors.FileSystemError("write sitemap").WithContext("path", target).WithCause(err).Build()
	}
	slog.Info("Generated sitemap", logfields.Path(target), logfields.Count(len(list)))
	return target, nil
}
