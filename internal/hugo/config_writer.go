// Package hugo emits the site framework configuration derived from the docsite config.
package hugo

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vrm-addon-for-blender/docsite/internal/config"
	ferrors "github.com/vrm-addon-for-blender/docsite/internal/foundation/errors"
	"github.com/vrm-addon-for-blender/docsite/internal/head"
	"github.com/vrm-addon-for-blender/docsite/internal/logfields"
)

// LanguageCode returns the Hugo language key for a locale: the base language
// of the root locale ("en"), and the locale key for the others ("ja").
func LanguageCode(l config.Locale) string {
	if !l.IsRoot() {
		return l.Key
	}
	base, _ := l.Tag().Base()
	return base.String()
}

// BuildConfig derives the Hugo configuration document.
func BuildConfig(cfg *config.Config) map[string]any {
	root := cfg.RootLocale()

	params := map[string]any{
		"description": cfg.Site.Description,
		"logo":        cfg.Site.Logo,
		"head":        headParams(head.SiteElements(cfg)),
		"ogImage": map[string]any{
			"fallback": cfg.OGImage.Fallback,
		},
	}
	if key := dataKey(cfg.Output.Manifest); key != "" {
		params["ogImage"].(map[string]any)["data"] = key
	}
	if len(cfg.Social) > 0 {
		social := make([]map[string]any, 0, len(cfg.Social))
		for _, s := range cfg.Social {
			social = append(social, map[string]any{"icon": s.Icon, "link": s.Link})
		}
		params["social"] = social
	}
	if cfg.Analytics.Enabled() {
		params["analytics"] = map[string]any{
			"provider":      string(cfg.Analytics.Provider),
			"measurementID": cfg.Analytics.MeasurementID,
		}
	}

	languages := map[string]any{}
	for i, l := range cfg.Locales {
		lang := map[string]any{
			"languageCode": l.Lang,
			"languageName": l.Label,
			"title":        l.Title,
			"weight":       i + 1,
			"params": map[string]any{
				"description": l.Description,
				"link":        l.Link,
				"sidebar":     sidebarParams(l.Sidebar),
			},
		}
		if menu := menuEntries(l.Nav); len(menu) > 0 {
			lang["menus"] = map[string]any{"main": menu}
		}
		languages[LanguageCode(l)] = lang
	}

	return map[string]any{
		"baseURL":                        cfg.Sitemap.Hostname + "/",
		"title":                          cfg.Site.Title,
		"defaultContentLanguage":         LanguageCode(root),
		"defaultContentLanguageInSubdir": false,
		"languages":                      languages,
		"params":                         params,
		// docsite writes sitemap.xml itself, with hreflang alternates.
		"disableKinds": []string{"sitemap"},
	}
}

// WriteConfig writes the Hugo configuration to cfg's output path and returns that path.
func WriteConfig(cfg *config.Config) (string, error) {
	configPath := cfg.OutputPath(cfg.Output.HugoConfig)
	data, err := yaml.Marshal(BuildConfig(cfg))
	if err != nil {
		return "", ferrors.BuildError("marshal Hugo config").WithCause(err).Build()
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", ferrors.FileSystemError("create Hugo config directory").WithContext("path", configPath).WithCause(err).Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return "", ferrors.FileSystemError("write Hugo config").WithContext("path", configPath).WithCause(err).Build()
	}
	slog.Info("Generated Hugo configuration", logfields.Path(configPath))
	return configPath, nil
}

func headParams(elems []config.HeadElement) []map[string]any {
	out := make([]map[string]any, 0, len(elems))
	for _, e := range elems {
		m := map[string]any{"tag": e.Tag}
		if len(e.Attrs) > 0 {
			m["attrs"] = e.Attrs
		}
		if e.Content != "" {
			m["content"] = e.Content
		}
		out = append(out, m)
	}
	return out
}

// menuEntries flattens nested nav items into Hugo menu entries linked by parent identifiers.
func menuEntries(items []config.NavItem) []map[string]any {
	var out []map[string]any
	var walk func(items []config.NavItem, parent string)
	walk = func(items []config.NavItem, parent string) {
		for i, item := range items {
			id := identifier(parent, i, item.Text)
			entry := map[string]any{
				"identifier": id,
				"name":       item.Text,
				"weight":     (i + 1) * 10,
			}
			if item.Link != "" {
				entry["url"] = item.Link
			}
			if parent != "" {
				entry["parent"] = parent
			}
			out = append(out, entry)
			walk(item.Items, id)
		}
	}
	walk(items, "")
	return out
}

func identifier(parent string, index int, text string) string {
	id := fmt.Sprintf("%d-%s", index+1, slug(text))
	if parent != "" {
		return parent + "." + id
	}
	return id
}

// slug lowercases ASCII letters and digits and collapses everything else to '-'.
// Non-ASCII text (e.g. Japanese labels) is dropped, so identifiers stay stable
// through the index prefix.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func sidebarParams(groups []config.SidebarGroup) []map[string]any {
	out := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		items := make([]map[string]any, 0, len(g.Items))
		for _, item := range g.Items {
			items = append(items, map[string]any{"text": item.Text, "link": item.Link})
		}
		out = append(out, map[string]any{"text": g.Text, "collapsed": g.Collapsed, "items": items})
	}
	return out
}

// dataKey returns the Hugo data key of a manifest stored under data/, or "".
// Nested folders become dotted keys: data/site/head.json is "site.head".
func dataKey(manifestPath string) string {
	p := path.Clean(filepath.ToSlash(manifestPath))
	rest, ok := strings.CutPrefix(p, "data/")
	if !ok || rest == "" {
		return ""
	}
	rest = strings.TrimSuffix(rest, path.Ext(rest))
	for _, segment := range strings.Split(rest, "/") {
		if segment == "" || segment == ".." {
			return ""
		}
	}
	return strings.ReplaceAll(rest, "/", ".")
}
