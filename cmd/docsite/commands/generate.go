package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vrm-addon-for-blender/docsite/internal/build"
	"github.com/vrm-addon-for-blender/docsite/internal/config"
	ferrors "github.com/vrm-addon-for-blender/docsite/internal/foundation/errors"
)

// HeadCmd implements the 'head' command.
type HeadCmd struct {
	Explain       bool   `help:"Log each page's group key and resolved image"`
	Format        string `help:"Manifest format (json or yaml), overriding output.manifest_format"`
	SkipUnchanged bool   `name:"skip-unchanged" help:"Keep the existing manifest when its content is unchanged"`
}

func (h *HeadCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	switch format := config.ManifestFormat(h.Format); format {
	case "":
	case config.ManifestJSON, config.ManifestYAML:
		overrideManifestFormat(cfg, format)
	default:
		return ferrors.ValidationError("unsupported manifest format").WithContext("format", h.Format).Build()
	}
	return runGenerate(g, cfg, build.Request{
		Artifacts:       []build.Artifact{build.ArtifactManifest},
		Explain:         h.Explain,
		SkipIfUnchanged: h.SkipUnchanged,
	})
}

// HugoCmd implements the 'hugo' command.
type HugoCmd struct{}

func (h *HugoCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	return runGenerate(g, cfg, build.Request{Artifacts: []build.Artifact{build.ArtifactHugo}})
}

// SitemapCmd implements the 'sitemap' command.
type SitemapCmd struct{}

func (s *SitemapCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	return runGenerate(g, cfg, build.Request{Artifacts: []build.Artifact{build.ArtifactSitemap}})
}

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Explain       bool `help:"Log each page's group key and resolved image"`
	SkipUnchanged bool `name:"skip-unchanged" help:"Keep the existing manifest when its content is unchanged"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	return runGenerate(g, cfg, build.Request{Explain: c.Explain, SkipIfUnchanged: c.SkipUnchanged})
}

func runGenerate(g *Global, cfg *config.Config, req build.Request) error {
	req.Config = cfg
	result, err := build.NewGenerator().WithRecorder(g.Recorder).Run(context.Background(), req)
	writeMetrics(g, cfg)
	if err != nil {
		return err
	}
	for _, artifact := range build.AllArtifacts {
		if path, ok := result.Written[artifact]; ok {
			fmt.Fprintf(g.Stdout, "%s: %s\n", artifact, path)
		}
	}
	return nil
}

// overrideManifestFormat switches the manifest encoding and, for a .json or
// .yaml manifest path, its extension.
func overrideManifestFormat(cfg *config.Config, format config.ManifestFormat) {
	cfg.Output.ManifestFormat = format
	ext := filepath.Ext(cfg.Output.Manifest)
	if ext == ".json" || ext == ".yaml" {
		cfg.Output.Manifest = strings.TrimSuffix(cfg.Output.Manifest, ext) + "." + string(format)
	}
}
