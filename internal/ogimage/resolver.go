// Package ogimage picks the social-preview image advertised for a documentation page.
//
// A page is correlated with its preview animation through its parent folder name:
// the page ja/ui/import_scene_vrm/index.md uses the asset whose file name starts with
// "import_scene_vrm." and ends with ".gif". Hyphens in folder names become underscores
// because the asset files are named with underscores. Pages without a parent folder,
// or without a matching asset, fall back to the site logo.
package ogimage

import "strings"

// DefaultImage is the fallback advertised when no preview asset matches a page.
const DefaultImage = "/logo.png"

const imageSuffix = ".gif"

// GroupKey derives the asset group key from a page's relative path.
// The key is the page's parent folder with every '-' replaced by '_'.
// ok is false when the path has no parent folder or the parent is empty.
func GroupKey(relativePath string) (key string, ok bool) {
	segments := strings.Split(relativePath, "/")
	if len(segments) < 2 {
		return "", false
	}
	// The filename itself is never part of the key.
	parent := segments[len(segments)-2]
	if parent == "" {
		return "", false
	}
	return strings.ReplaceAll(parent, "-", "_"), true
}

// Match reports whether asset is a preview image for the given group key.
// Only the final path segment of the asset is considered.
func Match(key, asset string) bool {
	name := asset
	if i := strings.LastIndex(asset, "/"); i >= 0 {
		name = asset[i+1:]
	}
	return strings.HasPrefix(name, key+".") && strings.HasSuffix(name, imageSuffix)
}

// Resolve returns the og:image path for the page at relativePath.
// Assets are scanned in order and the first match wins; DefaultImage is
// returned when nothing matches.
func Resolve(relativePath string, assets []string) string {
	return ResolveWithFallback(relativePath, assets, DefaultImage)
}

// ResolveWithFallback is Resolve with a caller-supplied fallback image.
func ResolveWithFallback(relativePath string, assets []string, fallback string) string {
	if image, ok := lookup(relativePath, assets); ok {
		return image
	}
	return fallback
}

func lookup(relativePath string, assets []string) (string, bool) {
	key, ok := GroupKey(relativePath)
	if !ok {
		return "", false
	}
	for _, asset := range assets {
		if Match(key, asset) {
			return asset, true
		}
	}
	return "", false
}
