package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrm-addon-for-blender/docsite/internal/build"
	ferrors "github.com/vrm-addon-for-blender/docsite/internal/foundation/errors"
)

// run parses args like the docsite binary and executes the selected command.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("docsite"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	g := NewGlobal(&out)
	err = ctx.Run(g, &cli)
	return out.String(), err
}

// siteDir switches into a temp dir holding a small site.
func siteDir(t *testing.T) string {
	t.Helper()
	t.Setenv("DOCSITE_GA_MEASUREMENT_ID", "")
	dir := t.TempDir()
	t.Chdir(dir)
	for _, p := range []string{
		"content/index.md",
		"content/ja/ui/import_scene_vrm/index.md",
		"static/ja/ui/import_scene_vrm.gif",
	} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	return dir
}

func TestInitCmd(t *testing.T) {
	dir := siteDir(t)

	out, err := run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")
	assert.FileExists(t, filepath.Join(dir, DefaultConfigPath))

	_, err = run(t, "init")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = run(t, "init", "--force")
	require.NoError(t, err)
}

func TestResolveCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"match", []string{"ja/ui/import_scene_vrm/index.md", "/a.gif", "/ja/ui/import_scene_vrm.gif"}, "/ja/ui/import_scene_vrm.gif"},
		{"hyphenated folder", []string{"ui/import-scene-vrm/guide.md", "/import_scene_vrm.gif"}, "/import_scene_vrm.gif"},
		{"no parent folder", []string{"index.md", "/index.gif"}, "/logo.png"},
		{"no assets", []string{"ja/ui/import_scene_vrm/index.md"}, "/logo.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"resolve"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}

	out, err := run(t, "resolve", "--fallback", "/og.png", "index.md")
	require.NoError(t, err)
	assert.Equal(t, "/og.png\n", out)
}

func TestShowCmd_JSON(t *testing.T) {
	siteDir(t)

	out, err := run(t, "config", "--format", "json")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	site := doc["site"].(map[string]any)
	assert.Equal(t, "VRM Add-on for Blender", site["title"])
}

func TestShowCmd_MissingExplicitConfig(t *testing.T) {
	siteDir(t)

	_, err := run(t, "-c", "other.yaml", "config")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestGenerateCmd(t *testing.T) {
	dir := siteDir(t)
	require.NoError(t, os.WriteFile(DefaultConfigPath, []byte("metrics:\n  textfile: metrics.prom\n"), 0o644))

	out, err := run(t, "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "manifest: data/head.json")
	assert.Contains(t, out, "hugo: hugo.yaml")
	assert.Contains(t, out, "sitemap: static/sitemap.xml")

	for _, p := range []string{"data/head.json", "hugo.yaml", "static/sitemap.xml"} {
		assert.FileExists(t, filepath.Join(dir, p))
	}

	prom, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `docsite_og_image_resolutions_total{result="matched"} 1`)
	assert.Contains(t, string(prom), `docsite_og_image_resolutions_total{result="fallback"} 1`)
}

func TestHeadCmd_Format(t *testing.T) {
	dir := siteDir(t)

	out, err := run(t, "head", "--format", "yaml", "--explain")
	require.NoError(t, err)
	assert.Equal(t, "manifest: data/head.yaml\n", out)
	assert.FileExists(t, filepath.Join(dir, "data", "head.yaml"))
	assert.NoFileExists(t, filepath.Join(dir, "hugo.yaml"))

	_, err = run(t, "head", "--format", "toml")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestHugoAndSitemapCmds(t *testing.T) {
	dir := siteDir(t)

	out, err := run(t, "hugo")
	require.NoError(t, err)
	assert.Equal(t, "hugo: hugo.yaml\n", out)

	out, err = run(t, "sitemap")
	require.NoError(t, err)
	assert.Equal(t, "sitemap: static/sitemap.xml\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "static", "sitemap.xml"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "https://vrm-addon-for-blender.info/ja/ui/import_scene_vrm/"))
}

func TestContainsPath(t *testing.T) {
	dir := siteDir(t)
	abs := filepath.Join(dir, DefaultConfigPath)

	assert.True(t, containsPath([]string{abs}, DefaultConfigPath))
	assert.False(t, containsPath([]string{filepath.Join(dir, "hugo.yaml")}, DefaultConfigPath))
}

func TestFirstPositive(t *testing.T) {
	assert.Equal(t, 2*time.Second, firstPositive(0, 2*time.Second))
	assert.Equal(t, time.Second, firstPositive(time.Second, 2*time.Second))
	assert.Equal(t, time.Duration(0), firstPositive(0, 0))
}

func TestWatchCmd_StopsOnCancel(t *testing.T) {
	dir := siteDir(t)
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("docsite"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"watch", "--resync", "1h"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cli.Watch.run(ctx, NewGlobal(&bytes.Buffer{}), &cli) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "static", "sitemap.xml"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond, "initial generation writes artifacts")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

// flakyRunner fails with err for the first failures calls.
type flakyRunner struct {
	err      error
	failures int
	calls    int
}

func (r *flakyRunner) Run(context.Context, build.Request) (*build.Result, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, r.err
	}
	return &build.Result{}, nil
}

func TestRunRetrying(t *testing.T) {
	t.Run("retries filesystem errors once", func(t *testing.T) {
		gen := &flakyRunner{err: ferrors.FileSystemError("read page").Build(), failures: 1}
		require.NoError(t, runRetrying(context.Background(), gen, build.Request{}))
		assert.Equal(t, 2, gen.calls)
	})

	t.Run("gives up after the second failure", func(t *testing.T) {
		gen := &flakyRunner{err: ferrors.FileSystemError("read page").Build(), failures: 5}
		err := runRetrying(context.Background(), gen, build.Request{})
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
		assert.Equal(t, 2, gen.calls)
	})

	t.Run("does not retry build errors", func(t *testing.T) {
		gen := &flakyRunner{err: ferrors.BuildError("encode sitemap").Build(), failures: 1}
		require.Error(t, runRetrying(context.Background(), gen, build.Request{}))
		assert.Equal(t, 1, gen.calls)
	})
}
