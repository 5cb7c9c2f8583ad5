// Package version resolves the envdoctor binary's version string.
package version

import (
	"context"
	"runtime/debug"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/yaklabco/envdoctor/pkg/ui"
)

// Version is the CLI version. It can be overridden at build time via:
//
//	-ldflags "-X github.com/yaklabco/envdoctor/cmd/envdoctor/version.Version=v0.0.0"
//
// If left as "dev", we will attempt to detect the version from Go build
// info at runtime.
var Version = "dev" //nolint:gochecknoglobals // Populated by goreleaser ldflags.

// Commit is the git commit hash. It can be overridden at build time via:
//
//	-ldflags "-X github.com/yaklabco/envdoctor/cmd/envdoctor/version.Commit=<commit>"
var Commit = "" //nolint:gochecknoglobals // Populated by goreleaser ldflags.

// EffectiveVersion returns the best-effort version string for the binary.
// Precedence:
//  1. If Version was set via -ldflags and is not "dev"/empty, use it as-is.
//  2. If built via `go install module@version`, use Go build info `Main.Version`.
//  3. Fallback to Go build info `vcs.revision` (+ "-dirty" if `vcs.modified=true`).
//  4. Finally, return "dev".
func EffectiveVersion(_ context.Context) string {
	v := strings.TrimSpace(Version)
	if v != "" && v != "dev" {
		// Caller injected a version via ldflags
		return v
	}

	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		if mv := strings.TrimSpace(bi.Main.Version); mv != "" && mv != "(devel)" {
			return mv
		}
		var rev string
		var dirty string
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				rev = s.Value
			case "vcs.modified":
				if s.Value == "true" {
					dirty = "-dirty"
				}
			}
		}
		if rev != "" {
			return rev + dirty
		}
	}

	return "dev"
}

// EffectiveCommit returns the preferred commit hash for the build.
// Precedence:
// 1) Commit from ldflags, if provided.
// 2) Go build info `vcs.revision` (if available).
func EffectiveCommit(_ context.Context) string {
	c := strings.TrimSpace(Commit)
	if c != "" {
		return c
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return ""
}

// OverallVersionString renders a plain version line.
func OverallVersionString(ctx context.Context) string {
	parts := []string{EffectiveVersion(ctx)}
	if c := EffectiveCommit(ctx); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, "-")
}

// OverallVersionStringColorized renders a version line with fang-consistent colors.
func OverallVersionStringColorized(ctx context.Context) string {
	cs := ui.GetFangScheme()

	versionStyle := lipgloss.NewStyle().Foreground(cs.QuotedString) // program name color
	commitStyle := lipgloss.NewStyle().Foreground(cs.Program)       // subcommand color
	sepStyle := lipgloss.NewStyle().Foreground(cs.Base)             // neutral separator

	parts := []string{versionStyle.Render(EffectiveVersion(ctx))}
	if c := EffectiveCommit(ctx); c != "" {
		parts = append(parts, commitStyle.Render(c))
	}

	return strings.Join(parts, sepStyle.Render("-"))
}
