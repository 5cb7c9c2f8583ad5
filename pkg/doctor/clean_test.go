package doctor

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanRemovesArtifacts(t *testing.T) {
	dir := t.TempDir()
	p := Params{Dir: dir, TestFile: "test_output.txt"}

	testFile := filepath.Join(dir, p.TestFile)
	verifyLog := filepath.Join(dir, VerifyLogName)
	smokeDB := filepath.Join(dir, "smoke.db")
	keeper := filepath.Join(dir, "keep.txt")

	for _, path := range []string{testFile, verifyLog, smokeDB, keeper} {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	out := &bytes.Buffer{}
	require.NoError(t, Clean(p, smokeDB, out))

	for _, path := range []string{testFile, verifyLog, smokeDB} {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "expected %s to be removed", path)
	}

	// Unrelated files are untouched.
	_, err := os.Stat(keeper)
	assert.NoError(t, err)

	assert.Contains(t, out.String(), "Removed file: "+testFile)
	assert.Contains(t, out.String(), "Cleanup complete!")
}

func TestCleanSkipsMissingArtifacts(t *testing.T) {
	p := Params{Dir: t.TempDir(), TestFile: "test_output.txt"}

	out := &bytes.Buffer{}
	require.NoError(t, Clean(p, "", out))

	assert.NotContains(t, out.String(), "Removed file:")
	assert.Contains(t, out.String(), "Cleanup complete!")
}
