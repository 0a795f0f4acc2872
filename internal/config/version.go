package config

import (
	"os"
	"runtime/debug"
	"strings"
)

// fallbackVersion is reported when neither the environment nor the build
// metadata carries a version.
const fallbackVersion = "0.1.0"

// GetVersion returns the service version: APP_VERSION when set (CI/CD),
// otherwise the main module version stamped by the Go toolchain, otherwise
// the VCS revision, otherwise a fixed fallback.
func GetVersion() string {
	if envVersion := strings.TrimSpace(os.Getenv("APP_VERSION")); envVersion != "" {
		return envVersion
	}
	return versionFromBuild(debug.ReadBuildInfo())
}

func versionFromBuild(info *debug.BuildInfo, ok bool) string {
	if !ok || info == nil {
		return fallbackVersion
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return strings.TrimPrefix(v, "v")
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return fallbackVersion + "+" + s.Value[:7]
		}
	}
	return fallbackVersion
}
