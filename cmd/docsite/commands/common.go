package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/vrm-addon-for-blender/docsite/internal/config"
	"github.com/vrm-addon-for-blender/docsite/internal/logfields"
	"github.com/vrm-addon-for-blender/docsite/internal/metrics"
)

// DefaultConfigPath is optional: when it is absent the built-in configuration applies.
const DefaultConfigPath = "docsite.yaml"

// Global is shared state passed to every command.
type Global struct {
	Stdout   io.Writer
	Registry *prom.Registry
	Recorder metrics.Recorder
}

// NewGlobal creates the shared command state with a fresh metrics registry.
func NewGlobal(stdout io.Writer) *Global {
	reg := prom.NewRegistry()
	return &Global{
		Stdout:   stdout,
		Registry: reg,
		Recorder: metrics.NewPrometheusRecorder(reg),
	}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsite.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init     InitCmd     `cmd:"" help:"Write the built-in configuration to a file"`
	Show     ShowCmd     `cmd:"" name:"config" help:"Print the effective configuration"`
	Head     HeadCmd     `cmd:"" help:"Write the head manifest with each page's og:image"`
	Resolve  ResolveCmd  `cmd:"" help:"Resolve the og:image of one page against explicit assets"`
	Hugo     HugoCmd     `cmd:"" help:"Write the Hugo site configuration"`
	Sitemap  SitemapCmd  `cmd:"" help:"Write sitemap.xml"`
	Generate GenerateCmd `cmd:"" help:"Write the head manifest, Hugo configuration and sitemap"`
	Watch    WatchCmd    `cmd:"" help:"Generate, then regenerate whenever sources or configuration change"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(config.LoggingConfig{}, c.Verbose)
	return nil
}

// LoadConfig loads the configuration file named by --config and applies its
// logging settings. A missing default file falls back to the built-in configuration.
func (c *CLI) LoadConfig() (*config.Config, error) {
	path := c.Config
	if path == DefaultConfigPath {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			slog.Debug("No configuration file, using built-in configuration", logfields.Path(path))
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.Logging, c.Verbose)
	return cfg, nil
}

// ConfigFile returns the configuration file in effect, or "" for the built-in configuration.
func (c *CLI) ConfigFile() string {
	if _, err := os.Stat(c.Config); err != nil {
		return ""
	}
	return c.Config
}

// setupLogging installs the default slog logger. Verbose always wins over the configured level.
func setupLogging(cfg config.LoggingConfig, verbose bool) {
	level := slog.LevelInfo
	switch cfg.Level {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// writeMetrics snapshots the registry when a metrics textfile is configured.
func writeMetrics(g *Global, cfg *config.Config) {
	if cfg.Metrics.Textfile == "" || g.Registry == nil {
		return
	}
	if err := metrics.WriteTextfile(cfg.Metrics.Textfile, g.Registry); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
	}
}
