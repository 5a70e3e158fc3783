package version

import "fmt"

// Version is set at build time:
// go build -ldflags "-X github.com/vrm-addon-for-blender/docsite/internal/version.Version=v1.0.0".
var Version = "dev"

// Commit is the source revision the binary was built from.
var Commit = "unknown"

// String renders the version for --version output.
func String() string {
	return fmt.Sprintf("docsite %s (%s)", Version, Commit)
}
