package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) *atomic.Int32 {
	t.Helper()
	var hits atomic.Int32
	w := New(path, func() { hits.Add(1) }, WithDebounce(30*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	// Give fsnotify time to register the directory.
	time.Sleep(100 * time.Millisecond)
	return &hits
}

func TestWatcherNotifiesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crontab")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	hits := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("* * * * * a\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("* * * * * b\n"), 0o644))

	require.Eventually(t, func() bool { return hits.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), hits.Load(), "burst is debounced into one signal")
}

func TestWatcherNotifiesOnReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crontab")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	hits := startWatcher(t, path)

	tmp := filepath.Join(dir, "crontab.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("0 0 * * * x\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool { return hits.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crontab")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	hits := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, hits.Load())
}

func TestWatcherMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "crontab"), func() {})
	err := w.Run(context.Background())
	assert.Error(t, err)
}
