// Package version exposes the build version of the vdev binary.
package version

import "runtime/debug"

// Version is set at build time via -ldflags "-X .../internal/version.Version=v1.2.3".
var Version = "dev"

// String returns the release version, falling back to module build info
// for plain `go install` builds.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
