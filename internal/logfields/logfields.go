package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyPage       = "page"
	KeyLocale     = "locale"
	KeyAsset      = "asset"
	KeyGroupKey   = "group_key"
	KeyArtifact   = "artifact"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyAddr       = "addr"
	KeyError      = "error"
)

func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Locale(l string) slog.Attr       { return slog.String(KeyLocale, l) }
func Asset(a string) slog.Attr        { return slog.String(KeyAsset, a) }
func GroupKey(k string) slog.Attr     { return slog.String(KeyGroupKey, k) }
func Artifact(a string) slog.Attr     { return slog.String(KeyArtifact, a) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
