package config

import "github.com/vrm-addon-for-blender/docsite/internal/ogimage"

// ApplyDefaults fills values a user file may leave empty. It runs after Normalize.
func ApplyDefaults(c *Config) {
	if c.OGImage.Fallback == "" {
		c.OGImage.Fallback = ogimage.DefaultImage
	}
	if c.Site.Logo == "" {
		c.Site.Logo = ogimage.DefaultImage
	}

	for i := range c.Locales {
		l := &c.Locales[i]
		if l.Link == "" {
			if l.IsRoot() {
				l.Link = "/"
			} else {
				l.Link = "/" + l.Key + "/"
			}
		}
		if l.Title == "" {
			l.Title = c.Site.Title
		}
		if l.Description == "" {
			l.Description = c.Site.Description
		}
	}

	if c.Paths.Content == "" {
		c.Paths.Content = "content"
	}
	if c.Paths.Public == "" {
		c.Paths.Public = "static"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "."
	}
	if c.Output.Manifest == "" {
		c.Output.Manifest = "data/head." + string(c.Output.ManifestFormat)
	}
	if c.Output.HugoConfig == "" {
		c.Output.HugoConfig = "hugo.yaml"
	}
	if c.Output.Sitemap == "" {
		c.Output.Sitemap = "static/sitemap.xml"
	}
}
