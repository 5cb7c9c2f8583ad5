package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
	"github.com/yaklabco/envdoctor/internal/env"
	"github.com/yaklabco/envdoctor/pkg/sh"
	"github.com/yaklabco/envdoctor/pkg/ui"
)

// versionPattern extracts the first dotted version number from the
// interpreter's version output (e.g. "Python 3.11.4" -> "3.11.4").
var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// reportInterpreterVersion invokes the interpreter with its version flag
// and forwards the combined output verbatim. A missing binary surfaces as
// the invocation error text; the report continues either way.
func reportInterpreterVersion(ctx context.Context, p *Params, out io.Writer) {
	header(p, out, "Interpreter Version")

	versionText, err := sh.CombinedOutput(ctx, p.Interpreter, p.VersionFlag)
	if versionText != "" {
		fmt.Fprint(out, versionText)
		if !strings.HasSuffix(versionText, "\n") {
			fmt.Fprintln(out)
		}
	}
	if err != nil {
		fmt.Fprintln(out, p.Styles.Fail(err.Error()))
		return
	}

	if p.MinVersion != "" {
		checkMinVersion(p, out, versionText)
	}
}

// checkMinVersion compares the probed version against the configured floor.
func checkMinVersion(p *Params, out io.Writer, versionText string) {
	floor, err := semver.NewVersion(p.MinVersion)
	if err != nil {
		fmt.Fprintln(out, p.Styles.Fail(fmt.Sprintf("✗ invalid minimum version %q: %v", p.MinVersion, err)))
		return
	}

	raw := versionPattern.FindString(versionText)
	if raw == "" {
		fmt.Fprintln(out, p.Styles.Fail(fmt.Sprintf("✗ no version number found in output, wanted >= %s", floor)))
		return
	}

	probed, err := semver.NewVersion(raw)
	if err != nil {
		fmt.Fprintln(out, p.Styles.Fail(fmt.Sprintf("✗ unparseable version %q: %v", raw, err)))
		return
	}

	if probed.LessThan(floor) {
		fmt.Fprintln(out, p.Styles.Fail(fmt.Sprintf("✗ %s is below minimum version %s", probed, floor)))
		return
	}
	fmt.Fprintln(out, p.Styles.OK(fmt.Sprintf("✓ %s meets minimum version %s", probed, floor)))
}

// reportInterpreterLocation resolves the interpreter on the search path.
func reportInterpreterLocation(_ context.Context, p *Params, out io.Writer) {
	header(p, out, "Interpreter Location")

	path, err := sh.LookPath(p.Interpreter)
	if err != nil {
		fmt.Fprintln(out, p.Styles.Fail(err.Error()))
		return
	}
	fmt.Fprintln(out, path)
}

// reportSearchPath prints PATH verbatim. On a terminal the value is
// soft-wrapped for readability; wrapping never drops content.
func reportSearchPath(_ context.Context, p *Params, out io.Writer) {
	header(p, out, "Search Path")
	fmt.Fprintln(out, ui.Wrap(env.SearchPath(), p.Width))
}

func reportWorkingDirectory(_ context.Context, p *Params, out io.Writer) {
	header(p, out, "Working Directory")

	wd, err := p.workDir()
	if err != nil {
		fmt.Fprintln(out, p.Styles.Fail(err.Error()))
		return
	}
	fmt.Fprintln(out, wd)
}

// reportDirectoryContents lists the working directory, one entry per line,
// skipping entries that match an ignore pattern.
func reportDirectoryContents(_ context.Context, p *Params, out io.Writer) {
	header(p, out, "Directory Contents")

	wd, err := p.workDir()
	if err != nil {
		fmt.Fprintln(out, p.Styles.Fail(err.Error()))
		return
	}

	entries, err := listDir(wd, p.Ignore)
	if err != nil {
		fmt.Fprintln(out, p.Styles.Fail(err.Error()))
		return
	}
	for _, name := range entries {
		fmt.Fprintln(out, "- "+name)
	}
}

// listDir returns the names in dir, minus those matching an ignore glob.
// Patterns that do not compile are skipped (config validation already
// warned about them).
func listDir(dir string, ignore []string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	globs := make([]glob.Glob, 0, len(ignore))
	for _, pattern := range ignore {
		if g, err := glob.Compile(pattern); err == nil {
			globs = append(globs, g)
		}
	}

	names := make([]string, 0, len(dirEntries))
entries:
	for _, entry := range dirEntries {
		for _, g := range globs {
			if g.Match(entry.Name()) {
				continue entries
			}
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
