package build

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/vrm-addon-for-blender/docsite/internal/config"
	ferrors "github.com/vrm-addon-for-blender/docsite/internal/foundation/errors"
	"github.com/vrm-addon-for-blender/docsite/internal/head"
	"github.com/vrm-addon-for-blender/docsite/internal/hugo"
	"github.com/vrm-addon-for-blender/docsite/internal/lastmod"
	"github.com/vrm-addon-for-blender/docsite/internal/logfields"
	"github.com/vrm-addon-for-blender/docsite/internal/manifest"
	"github.com/vrm-addon-for-blender/docsite/internal/metrics"
	"github.com/vrm-addon-for-blender/docsite/internal/ogimage"
	"github.com/vrm-addon-for-blender/docsite/internal/pages"
	"github.com/vrm-addon-for-blender/docsite/internal/sitemap"
)

// Generator is the standard implementation of Service.
type Generator struct {
	recorder metrics.Recorder
}

// NewGenerator creates a Generator reporting to a NoopRecorder.
func NewGenerator() *Generator {
	return &Generator{recorder: metrics.NoopRecorder{}}
}

// WithRecorder reports resolutions, durations and outcomes to rec.
func (g *Generator) WithRecorder(rec metrics.Recorder) *Generator {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	g.recorder = rec
	return g
}

// OutputPaths returns the paths of every artifact cfg writes. Discovery never
// reports them, and the watcher ignores them.
func OutputPaths(cfg *config.Config) []string {
	return []string{
		cfg.OutputPath(cfg.Output.Manifest),
		cfg.OutputPath(cfg.Output.HugoConfig),
		cfg.OutputPath(cfg.Output.Sitemap),
	}
}

// Run executes the generation pipeline.
func (g *Generator) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	result := &Result{StartTime: start, Written: map[Artifact]string{}}
	finish := func(status Status) {
		result.Status = status
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(start)
	}

	if req.Config == nil {
		finish(StatusFailed)
		return result, ferrors.ConfigError("config required").Build()
	}
	cfg := req.Config
	artifacts := req.Artifacts
	if len(artifacts) == 0 {
		artifacts = AllArtifacts
	}

	site, err := pages.NewDiscovery(cfg, pages.Options{Exclude: OutputPaths(cfg)}).Discover()
	if err != nil {
		finish(StatusFailed)
		return result, err
	}
	result.Pages = len(site.Pages)
	result.Assets = len(site.Assets)
	g.recorder.SetPagesDiscovered(result.Pages)
	g.recorder.SetAssetsDiscovered(result.Assets)

	for _, artifact := range AllArtifacts {
		if !slices.Contains(artifacts, artifact) {
			continue
		}
		if err := ctx.Err(); err != nil {
			finish(StatusCancelled)
			return result, err
		}

		stageStart := time.Now()
		path, err := g.generate(cfg, artifact, site, req, result)
		g.recorder.ObserveGenerateDuration(string(artifact), time.Since(stageStart))
		if err != nil {
			g.recorder.IncGenerateOutcome(string(artifact), metrics.OutcomeFailed)
			slog.Error("Artifact generation failed", logfields.Artifact(string(artifact)), logfields.Error(err))
			finish(StatusFailed)
			return result, err
		}
		g.recorder.IncGenerateOutcome(string(artifact), metrics.OutcomeSuccess)
		slog.Debug("Artifact written", logfields.Artifact(string(artifact)), logfields.Path(path))
		result.Written[artifact] = path
	}

	finish(StatusSuccess)
	slog.Info("Generation complete",
		logfields.Count(result.Pages),
		logfields.DurationMS(float64(result.Duration.Microseconds())/1000))
	return result, nil
}

func (g *Generator) generate(cfg *config.Config, artifact Artifact, site *pages.Site, req Request, result *Result) (string, error) {
	switch artifact {
	case ArtifactManifest:
		return g.writeManifest(cfg, site, req, result)
	case ArtifactHugo:
		return hugo.WriteConfig(cfg)
	case ArtifactSitemap:
		return sitemap.Write(cfg, site.Pages, lastModFunc(cfg))
	default:
		return "", ferrors.InternalError("unknown artifact").WithContext("artifact", string(artifact)).Build()
	}
}

func (g *Generator) writeManifest(cfg *config.Config, site *pages.Site, req Request, result *Result) (string, error) {
	heads := head.NewBuilder(cfg).WithRecorder(g.recorder).Build(site)
	if req.Explain {
		explain(heads)
	}

	m, err := manifest.New(cfg, heads)
	if err != nil {
		return "", ferrors.BuildError("assemble head manifest").WithCause(err).Build()
	}
	hash, err := m.Hash()
	if err != nil {
		return "", ferrors.BuildError("hash head manifest").WithCause(err).Build()
	}
	result.ManifestHash = hash

	target := cfg.OutputPath(cfg.Output.Manifest)
	if req.SkipIfUnchanged {
		if prev, err := manifest.ReadFile(target, cfg.Output.ManifestFormat); err == nil {
			if prevHash, err := prev.Hash(); err == nil && prevHash == hash {
				result.ManifestUnchanged = true
				slog.Info("Head manifest unchanged", logfields.Path(target))
				return target, nil
			}
		}
	}

	if err := manifest.WriteFile(target, m, cfg.Output.ManifestFormat); err != nil {
		return "", err
	}
	slog.Info("Generated head manifest", logfields.Path(target), logfields.Count(len(m.Pages)))
	return target, nil
}

// lastModFunc returns the sitemap <lastmod> source selected by cfg, or nil.
// A content directory outside any git repository disables <lastmod>.
func lastModFunc(cfg *config.Config) sitemap.LastModFunc {
	if cfg.Sitemap.LastMod != config.LastModGit {
		return nil
	}
	history, err := lastmod.OpenGit(cfg.Paths.Content)
	if err != nil {
		slog.Warn("Git history unavailable, sitemap has no lastmod", logfields.Path(cfg.Paths.Content), logfields.Error(err))
		return nil
	}
	return func(p pages.Page) (time.Time, bool) {
		return history.LastModified(p.Path)
	}
}

func explain(heads []head.PageHead) {
	for _, h := range heads {
		key, ok := ogimage.GroupKey(h.Page.RelativePath)
		if !ok {
			key = "(none)"
		}
		image := ""
		for _, tag := range h.Tags {
			if tag.Name == head.OGImageName {
				image = tag.Value
			}
		}
		slog.Info("Resolved og:image",
			logfields.Page(h.Page.RelativePath),
			logfields.Locale(h.Page.Locale),
			logfields.GroupKey(key),
			logfields.Asset(image))
	}
}
