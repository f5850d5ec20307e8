// Package version reports the build identity of the plantops binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X github.com/example/plantops/internal/version.Commit=...".
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = "unknown"
)

// String returns e.g. "plantops dev (commit: 1a2b3c4, built: 2026-10-18T06:00:00Z)".
func String() string {
	return fmt.Sprintf("plantops %s (commit: %s, built: %s)", Version, commit(), BuildTime)
}

// commit prefers the ldflags value and falls back to the VCS stamp go build embeds.
func commit() string {
	c := Commit
	if c == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	if c == "" {
		return "unknown"
	}
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
