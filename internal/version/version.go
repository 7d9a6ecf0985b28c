package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// These variables can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/muurk/freightform/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/freightform/internal/version.Commit=abc123"
//
// If not set, they are populated from the module build info (if available),
// or fall back to "dev".
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			fromBuildInfo(info)
		}
	}

	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo fills Version and Commit from the module and VCS settings
func fromBuildInfo(info *debug.BuildInfo) {
	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	var revision, modified string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		}
	}

	if Commit == "" && revision != "" {
		// Use short hash (first 7 characters)
		if len(revision) > 7 {
			revision = revision[:7]
		}
		Commit = revision
		if modified == "true" {
			Commit += "-dirty"
		}
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Source returns the identifier sent with every lead, e.g. "freightform/v1.2.0".
// A non-empty channel (from configuration) is appended: "freightform/v1.2.0 kiosk".
func Source(channel string) string {
	s := "freightform/" + Version
	if channel = strings.TrimSpace(channel); channel != "" {
		s += " " + channel
	}
	return s
}
