package doctor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sectionHeaders is the fixed transcript skeleton every run must produce.
var sectionHeaders = []string{
	BannerTitle,
	"Interpreter Version:",
	"Interpreter Location:",
	"Search Path:",
	"Working Directory:",
	"Directory Contents:",
	"File I/O Smoke Test:",
	CompletionMessage,
}

// fakeInterpreter writes an executable script that prints a fixed version
// string and returns its path.
func fakeInterpreter(t *testing.T, versionLine string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter relies on shell scripts")
	}

	path := filepath.Join(t.TempDir(), "fakepy")
	script := "#!/bin/sh\necho \"" + versionLine + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func testParams(t *testing.T, out *bytes.Buffer) Params {
	t.Helper()
	return Params{
		Out:         out,
		Dir:         t.TempDir(),
		Interpreter: fakeInterpreter(t, "Python 3.11.4"),
		VersionFlag: "--version",
		TestFile:    "test_output.txt",
	}
}

func assertHeadersInOrder(t *testing.T, transcript string) {
	t.Helper()
	rest := transcript
	for _, h := range sectionHeaders {
		idx := strings.Index(rest, h)
		require.GreaterOrEqual(t, idx, 0, "missing or out-of-order header %q in transcript:\n%s", h, transcript)
		rest = rest[idx+len(h):]
	}
}

func TestRunProducesAllSectionsInOrder(t *testing.T) {
	out := &bytes.Buffer{}
	p := testParams(t, out)

	require.NoError(t, Run(context.Background(), p))

	transcript := out.String()
	assertHeadersInOrder(t, transcript)
	assert.Contains(t, transcript, "Python 3.11.4")
	assert.Contains(t, transcript, p.Interpreter)
	assert.Contains(t, transcript, p.Dir)
	assert.True(t, strings.HasSuffix(transcript, ClosingLine+"\n"))
}

func TestRunSearchPathVerbatim(t *testing.T) {
	t.Setenv("PATH", "/first/bin:/second/bin")

	out := &bytes.Buffer{}
	p := testParams(t, out)
	// The interpreter is an absolute path, so the PATH override only
	// affects the Search Path section.
	require.NoError(t, Run(context.Background(), p))

	assert.Contains(t, out.String(), "/first/bin:/second/bin")
	assertHeadersInOrder(t, out.String())
}

func TestRunMissingInterpreterStillCompletes(t *testing.T) {
	out := &bytes.Buffer{}
	p := Params{
		Out:         out,
		Dir:         t.TempDir(),
		Interpreter: "definitely-not-a-real-interpreter-binary",
		VersionFlag: "--version",
		TestFile:    "test_output.txt",
	}

	require.NoError(t, Run(context.Background(), p))
	assertHeadersInOrder(t, out.String())
	assert.Contains(t, out.String(), "definitely-not-a-real-interpreter-binary")
}

func TestRunSmokeTestRoundTrip(t *testing.T) {
	out := &bytes.Buffer{}
	p := testParams(t, out)

	require.NoError(t, Run(context.Background(), p))

	// The transcript echoes exactly what was written.
	assert.Contains(t, out.String(), strings.TrimSuffix(TestFileContent, "\n"))

	// And the file persists on disk with the fixed content.
	content, err := os.ReadFile(filepath.Join(p.Dir, p.TestFile))
	require.NoError(t, err)
	assert.Equal(t, TestFileContent, string(content))
}

func TestRunIsIdempotent(t *testing.T) {
	out := &bytes.Buffer{}
	p := testParams(t, out)

	require.NoError(t, Run(context.Background(), p))
	require.NoError(t, Run(context.Background(), p))

	content, err := os.ReadFile(filepath.Join(p.Dir, p.TestFile))
	require.NoError(t, err)
	assert.Equal(t, TestFileContent, string(content))
}

func TestRunSecondListingIncludesTestFile(t *testing.T) {
	p := testParams(t, &bytes.Buffer{})
	require.NoError(t, Run(context.Background(), p))

	out := &bytes.Buffer{}
	p.Out = out
	require.NoError(t, Run(context.Background(), p))

	assert.Contains(t, out.String(), "- "+p.TestFile)
}

func TestRunListsDirectoryEntries(t *testing.T) {
	out := &bytes.Buffer{}
	p := testParams(t, out)

	require.NoError(t, os.WriteFile(filepath.Join(p.Dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(p.Dir, "b.txt"), []byte("b"), 0o644))

	require.NoError(t, Run(context.Background(), p))

	assert.Contains(t, out.String(), "- a.txt")
	assert.Contains(t, out.String(), "- b.txt")
}

func TestRunIgnorePatternsFilterListing(t *testing.T) {
	out := &bytes.Buffer{}
	p := testParams(t, out)
	p.Ignore = []string{"*.pyc"}

	require.NoError(t, os.WriteFile(filepath.Join(p.Dir, "keep.txt"), []byte("k"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(p.Dir, "drop.pyc"), []byte("d"), 0o644))

	require.NoError(t, Run(context.Background(), p))

	assert.Contains(t, out.String(), "- keep.txt")
	assert.NotContains(t, out.String(), "drop.pyc")
}

func TestRunUnwritableDirSurfacesErrorAndCompletes(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}

	out := &bytes.Buffer{}
	p := testParams(t, out)
	require.NoError(t, os.Chmod(p.Dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(p.Dir, 0o755) })

	require.NoError(t, Run(context.Background(), p))

	assertHeadersInOrder(t, out.String())
	assert.Contains(t, out.String(), "permission denied")
}

func TestRunUnusableDirOverride(t *testing.T) {
	p := Params{
		Out:         &bytes.Buffer{},
		Dir:         filepath.Join(t.TempDir(), "does-not-exist"),
		Interpreter: "python3",
		VersionFlag: "--version",
		TestFile:    "test_output.txt",
	}

	assert.Error(t, Run(context.Background(), p))
}

func TestMinVersionCheck(t *testing.T) {
	tests := []struct {
		name        string
		versionLine string
		minVersion  string
		wantMarker  string
	}{
		{"meets floor", "Python 3.11.4", "3.10.0", "✓ 3.11.4 meets minimum version 3.10.0"},
		{"below floor", "Python 3.8.2", "3.10.0", "✗ 3.8.2 is below minimum version 3.10.0"},
		{"no version in output", "no digits here", "3.10.0", "✗ no version number found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			p := testParams(t, out)
			p.Interpreter = fakeInterpreter(t, tt.versionLine)
			p.MinVersion = tt.minVersion

			require.NoError(t, Run(context.Background(), p))
			assert.Contains(t, out.String(), tt.wantMarker)
		})
	}
}

func TestBannerShape(t *testing.T) {
	out := &bytes.Buffer{}
	p := testParams(t, out)

	require.NoError(t, Run(context.Background(), p))

	lines := strings.Split(out.String(), "\n")
	require.Greater(t, len(lines), 3)
	assert.Equal(t, strings.Repeat("=", 50), lines[0])
	assert.Equal(t, BannerTitle, strings.TrimSpace(lines[1]))
	assert.Equal(t, strings.Repeat("=", 50), lines[2])
}
