// Package pages discovers the documentation pages and static assets of a site tree.
package pages

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vrm-addon-for-blender/docsite/internal/config"
	ferrors "github.com/vrm-addon-for-blender/docsite/internal/foundation/errors"
	"github.com/vrm-addon-for-blender/docsite/internal/logfields"
)

// Page is a discovered documentation page.
type Page struct {
	Path         string // Absolute path to the file
	RelativePath string // Slash-separated path relative to the content directory
	Locale       string // Key of the locale the page belongs to
	LocalPath    string // RelativePath with the locale prefix removed
	URL          string // Public URL path, e.g. /ja/ui/import_scene_vrm/
}

// Site is the result of a discovery pass.
type Site struct {
	Pages  []Page
	Assets []string // Public asset paths, e.g. /ja/ui/import_scene_vrm.gif
}

// Options tune a discovery pass.
type Options struct {
	// Exclude lists absolute file paths that are never reported, such as
	// artifacts docsite itself writes into the public directory.
	Exclude []string
}

// Discovery walks the content and public directories configured for a site.
type Discovery struct {
	cfg     *config.Config
	ignore  map[string]bool
	exclude map[string]bool
}

// NewDiscovery creates a discovery pass over cfg's paths.
func NewDiscovery(cfg *config.Config, opts Options) *Discovery {
	ignore := map[string]bool{}
	for _, name := range cfg.Paths.Ignore {
		ignore[name] = true
	}
	exclude := map[string]bool{}
	for _, p := range opts.Exclude {
		if abs, err := filepath.Abs(p); err == nil {
			exclude[abs] = true
		}
	}
	return &Discovery{cfg: cfg, ignore: ignore, exclude: exclude}
}

// Discover returns all pages and assets. Both lists are sorted lexically by
// relative path, so repeated runs over the same tree scan assets in the same order.
// A missing public directory yields no assets; a missing content directory is an error.
func (d *Discovery) Discover() (*Site, error) {
	contentDir := d.cfg.Paths.Content
	pages, err := d.discoverPages(contentDir)
	if err != nil {
		return nil, err
	}
	assets, err := d.discoverAssets(d.cfg.Paths.Public)
	if err != nil {
		return nil, err
	}
	slog.Info("Site discovered", slog.Int("pages", len(pages)), slog.Int("assets", len(assets)))
	return &Site{Pages: pages, Assets: assets}, nil
}

func (d *Discovery) discoverPages(root string) ([]Page, error) {
	if !isDir(root) {
		return nil, ferrors.NotFoundError("content directory not found").WithContext("path", root).Build()
	}
	var pages []Page
	err := d.walk(root, func(abs, rel string) {
		if !isMarkdownFile(rel) {
			return
		}
		page := d.newPage(abs, rel)
		pages = append(pages, page)
		slog.Debug("Discovered page", logfields.Page(rel), logfields.Locale(page.Locale))
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(pages, func(a, b Page) int { return strings.Compare(a.RelativePath, b.RelativePath) })
	return pages, nil
}

func (d *Discovery) discoverAssets(root string) ([]string, error) {
	if !isDir(root) {
		slog.Warn("Public directory not found, no preview assets available", logfields.Path(root))
		return nil, nil
	}
	var assets []string
	err := d.walk(root, func(_, rel string) {
		assets = append(assets, "/"+rel)
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(assets)
	return assets, nil
}

// walk calls fn for every visible, non-ignored regular file under root with its
// absolute path and slash-separated relative path.
func (d *Discovery) walk(root string, fn func(abs, rel string)) error {
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if p != root && (strings.HasPrefix(name, ".") || d.ignore[name]) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if d.exclude[abs] {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", p, err)
		}
		fn(abs, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return ferrors.FileSystemError("walk site directory").WithContext("path", root).WithCause(err).Build()
	}
	return nil
}

func (d *Discovery) newPage(abs, rel string) Page {
	locale := config.RootLocaleKey
	local := rel
	if first, rest, ok := strings.Cut(rel, "/"); ok {
		if l, found := d.cfg.Locale(first); found && !l.IsRoot() {
			locale = l.Key
			local = rest
		}
	}
	return Page{
		Path:         abs,
		RelativePath: rel,
		Locale:       locale,
		LocalPath:    local,
		URL:          PageURL(rel),
	}
}

// PageURL maps a content-relative markdown path to its public URL using
// directory-style URLs: index.md and _index.md map to their folder, other
// files to a folder named after the file.
func PageURL(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	dir, base := path.Split(rel)
	if base == "index" || base == "_index" || strings.EqualFold(base, "README") {
		rel = strings.TrimSuffix(dir, "/")
	}
	if rel == "" {
		return "/"
	}
	return "/" + rel + "/"
}

func isMarkdownFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
