package hugo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vrm-addon-for-blender/docsite/internal/config"
)

func defaultConfig(t *testing.T, measurementID string) *config.Config {
	t.Helper()
	t.Setenv("DOCSITE_GA_MEASUREMENT_ID", measurementID)
	cfg, err := config.Default()
	require.NoError(t, err)
	return cfg
}

func TestLanguageCode(t *testing.T) {
	assert.Equal(t, "en", LanguageCode(config.Locale{Key: config.RootLocaleKey, Lang: "en-US"}))
	assert.Equal(t, "ja", LanguageCode(config.Locale{Key: "ja", Lang: "ja-JP"}))
}

func TestBuildConfig(t *testing.T) {
	cfg := defaultConfig(t, "")
	root := BuildConfig(cfg)

	assert.Equal(t, "https://vrm-addon-for-blender.info/", root["baseURL"])
	assert.Equal(t, "VRM Add-on for Blender", root["title"])
	assert.Equal(t, "en", root["defaultContentLanguage"])
	assert.Equal(t, []string{"sitemap"}, root["disableKinds"])

	languages, ok := root["languages"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, languages, "en")
	require.Contains(t, languages, "ja")

	ja := languages["ja"].(map[string]any)
	assert.Equal(t, "ja-JP", ja["languageCode"])
	assert.Equal(t, "日本語", ja["languageName"])
	assert.Equal(t, 2, ja["weight"])

	params := root["params"].(map[string]any)
	assert.NotContains(t, params, "analytics")
	assert.Len(t, params["head"], 3)
	assert.Equal(t, map[string]any{"fallback": "/logo.png", "data": "head"}, params["ogImage"])
}

func TestBuildConfig_NestedManifest(t *testing.T) {
	cfg := defaultConfig(t, "")
	cfg.Output.Manifest = filepath.Join("data", "site", "head.json")

	params := BuildConfig(cfg)["params"].(map[string]any)
	assert.Equal(t, map[string]any{"fallback": "/logo.png", "data": "site.head"}, params["ogImage"])
}

func TestBuildConfig_Analytics(t *testing.T) {
	cfg := defaultConfig(t, "G-TEST1234")
	params := BuildConfig(cfg)["params"].(map[string]any)

	assert.Equal(t, map[string]any{"provider": "google", "measurementID": "G-TEST1234"}, params["analytics"])
	assert.Len(t, params["head"], 5, "favicons plus loader and inline gtag scripts")
}

func TestMenuEntries_Nested(t *testing.T) {
	menu := menuEntries([]config.NavItem{
		{Text: "Home", Link: "/"},
		{Text: "Documentation", Items: []config.NavItem{
			{Text: "Installation", Link: "/installation/"},
		}},
	})
	require.Len(t, menu, 3)

	assert.Equal(t, "1-home", menu[0]["identifier"])
	assert.Equal(t, "/", menu[0]["url"])
	assert.NotContains(t, menu[0], "parent")

	assert.Equal(t, "2-documentation", menu[1]["identifier"])
	assert.NotContains(t, menu[1], "url")

	assert.Equal(t, "2-documentation.1-installation", menu[2]["identifier"])
	assert.Equal(t, "2-documentation", menu[2]["parent"])
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "user-interface", slug("User Interface"))
	assert.Equal(t, "", slug("ホーム"))
	assert.Equal(t, "vrma", slug("VRMAインポート"))
}

func TestDataKey(t *testing.T) {
	assert.Equal(t, "head", dataKey("data/head.json"))
	assert.Equal(t, "head", dataKey("data/head.yaml"))
	assert.Equal(t, "", dataKey("build/head.json"))
	assert.Equal(t, "", dataKey("head.json"))
	assert.Equal(t, "site.head", dataKey("data/site/head.json"))
	assert.Equal(t, "a.b.head", dataKey("data/a/b/head.yaml"))
	assert.Equal(t, "head", dataKey("./data/head.json"))
	assert.Equal(t, "", dataKey("data/"))
	assert.Equal(t, "", dataKey("content/data/head.json"))
}

func TestWriteConfig(t *testing.T) {
	cfg := defaultConfig(t, "")
	cfg.Output.Directory = t.TempDir()

	written, err := WriteConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Output.Directory, "hugo.yaml"), written)

	data, err := os.ReadFile(written)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "https://vrm-addon-for-blender.info/", decoded["baseURL"])

	again, err := yaml.Marshal(BuildConfig(cfg))
	require.NoError(t, err)
	assert.Equal(t, string(again), string(data), "output is deterministic")
}
