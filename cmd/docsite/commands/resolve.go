package commands

import (
	"fmt"
	"log/slog"

	"github.com/vrm-addon-for-blender/docsite/internal/logfields"
	"github.com/vrm-addon-for-blender/docsite/internal/ogimage"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	Path     string   `arg:"" help:"Content-relative page path, e.g. ja/ui/import_scene_vrm/index.md"`
	Assets   []string `arg:"" optional:"" help:"Candidate asset paths, scanned in order"`
	Fallback string   `help:"Image returned when nothing matches" default:"/logo.png"`
}

func (r *ResolveCmd) Run(g *Global, _ *CLI) error {
	if key, ok := ogimage.GroupKey(r.Path); ok {
		slog.Debug("Group key", logfields.Page(r.Path), logfields.GroupKey(key))
	} else {
		slog.Debug("Page has no parent folder", logfields.Page(r.Path))
	}
	image := ogimage.NewResolver(r.Fallback).WithRecorder(g.Recorder).Resolve(r.Path, r.Assets)
	_, err := fmt.Fprintln(g.Stdout, image)
	return err
}
