package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFiresOnChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fired atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, Options{
			Dir:      dir,
			Debounce: 50 * time.Millisecond,
			OnChange: func(context.Context) { fired.Add(1) },
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trigger.txt"), []byte("x"), 0o644))

	require.Eventually(t, func() bool { return fired.Load() >= 1 },
		3*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatchIgnoresOwnArtifacts(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fired atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, Options{
			Dir:      dir,
			Debounce: 50 * time.Millisecond,
			Ignore:   []string{"test_output.txt"},
			OnChange: func(context.Context) { fired.Add(1) },
		})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test_output.txt"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(0), fired.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestWatchCancellationIsClean(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, Options{
			Dir:      dir,
			OnChange: func(context.Context) {},
		})
	}()

	cancel()
	require.NoError(t, <-done)
}

func TestWatchRequiresOnChange(t *testing.T) {
	err := Watch(context.Background(), Options{Dir: t.TempDir()})
	assert.Error(t, err)
}

func TestWatchBadIgnorePattern(t *testing.T) {
	err := Watch(context.Background(), Options{
		Dir:      t.TempDir(),
		Ignore:   []string{"[unclosed"},
		OnChange: func(context.Context) {},
	})
	assert.Error(t, err)
}

func TestIgnoredMatchesBaseName(t *testing.T) {
	globs := []glob.Glob{
		glob.MustCompile("*.log"),
		glob.MustCompile("test_output.txt"),
	}

	assert.True(t, ignored(globs, "/some/dir/run.log"))
	assert.True(t, ignored(globs, "/some/dir/test_output.txt"))
	assert.False(t, ignored(globs, "/some/dir/code.go"))
}
