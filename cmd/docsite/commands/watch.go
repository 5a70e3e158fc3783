package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vrm-addon-for-blender/docsite/internal/build"
	"github.com/vrm-addon-for-blender/docsite/internal/config"
	ferrors "github.com/vrm-addon-for-blender/docsite/internal/foundation/errors"
	"github.com/vrm-addon-for-blender/docsite/internal/logfields"
	"github.com/vrm-addon-for-blender/docsite/internal/metrics"
	"github.com/vrm-addon-for-blender/docsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (overrides metrics.addr)"`
	Debounce    time.Duration `help:"Quiet period before regenerating (overrides watch.debounce, default 500ms)"`
	Resync      time.Duration `help:"Regenerate on this interval even without changes (overrides watch.resync)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return w.run(ctx, g, root)
}

func (w *WatchCmd) run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	gen := build.NewGenerator().WithRecorder(g.Recorder)
	if _, err := gen.Run(ctx, build.Request{Config: cfg, SkipIfUnchanged: true}); err != nil {
		return err
	}

	addr := w.MetricsAddr
	if addr == "" {
		addr = cfg.Metrics.Addr
	}
	if addr != "" {
		stop := serveMetrics(addr, g)
		defer stop()
	}

	configFile := root.ConfigFile()
	var files []string
	if configFile != "" {
		files = append(files, configFile)
	}
	debounce := firstPositive(w.Debounce, cfg.Watch.Debounce)
	watcher, err := watch.New(watch.Options{
		Roots:    []string{cfg.Paths.Content, cfg.Paths.Public},
		Files:    files,
		Ignore:   build.OutputPaths(cfg),
		Debounce: debounce,
	}, func(ctx context.Context, changed []string) {
		cfg = regenerate(ctx, gen, root, cfg, configFile, changed)
	})
	if err != nil {
		return ferrors.RuntimeError("start watcher").WithCause(err).Build()
	}

	if resync := firstPositive(w.Resync, cfg.Watch.Resync); resync > 0 {
		scheduler, err := watch.NewScheduler()
		if err != nil {
			return ferrors.RuntimeError("start scheduler").WithCause(err).Build()
		}
		if _, err := scheduler.ScheduleEvery("resync", resync, watcher.Trigger); err != nil {
			return ferrors.RuntimeError("schedule resync").WithCause(err).Build()
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}
	return watcher.Run(ctx)
}

func firstPositive(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// runner is the part of build.Generator the watch loop drives.
type runner interface {
	Run(ctx context.Context, req build.Request) (*build.Result, error)
}

// regenerate reloads the configuration when its file changed and regenerates
// every artifact. A failed reload keeps the previous configuration.
func regenerate(ctx context.Context, gen runner, root *CLI, cfg *config.Config, configFile string, changed []string) *config.Config {
	if len(changed) == 0 {
		slog.Info("Scheduled resync")
	} else {
		slog.Info("Sources changed", logfields.Count(len(changed)))
	}
	if configFile != "" && containsPath(changed, configFile) {
		next, err := root.LoadConfig()
		if err != nil {
			slog.Error("Configuration reload failed, keeping previous configuration", logfields.Error(err))
		} else {
			slog.Info("Configuration reloaded", logfields.Path(configFile))
			cfg = next
		}
	}
	if err := runRetrying(ctx, gen, build.Request{Config: cfg, SkipIfUnchanged: true}); err != nil {
		slog.Error("Regeneration failed", logfields.Error(err))
	}
	return cfg
}

// runRetrying runs gen once more when the first failure is retryable, such as
// a file still being written by an editor.
func runRetrying(ctx context.Context, gen runner, req build.Request) error {
	_, err := gen.Run(ctx, req)
	if classified, ok := ferrors.AsClassified(err); ok && classified.CanRetry() && ctx.Err() == nil {
		slog.Warn("Regeneration failed, retrying", logfields.Error(err))
		_, err = gen.Run(ctx, req)
	}
	return err
}

func containsPath(paths []string, target string) bool {
	abs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	for _, p := range paths {
		if p == abs {
			return true
		}
	}
	return false
}

// serveMetrics serves /metrics until the returned stop function is called.
func serveMetrics(addr string, g *Global) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(g.Registry))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("Serving metrics", logfields.Addr(addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Addr(addr), logfields.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Metrics server shutdown failed", logfields.Error(err))
		}
	}
}
