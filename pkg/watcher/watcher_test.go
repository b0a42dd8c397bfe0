package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherDebouncesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\nendsolid a\n"), 0o644))

	fw, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)

	var calls atomic.Int32
	changed := make(chan string, 4)
	require.NoError(t, fw.Watch([]string{path}, func(p string) {
		calls.Add(1)
		changed <- p
	}))
	fw.Start()
	defer fw.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("solid b\nendsolid b\n"), 0o644))
	}

	select {
	case p := <-changed:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, p)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFileWatcherMissingFile(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Close()

	err = fw.Watch([]string{filepath.Join(t.TempDir(), "missing.stl")}, func(string) {})
	assert.Error(t, err)
}

func TestRemoveAllDropsPendingCallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\nendsolid a\n"), 0o644))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)

	fw, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Close()

	var calls atomic.Int32
	require.NoError(t, fw.Watch([]string{path}, func(string) { calls.Add(1) }))

	fw.handleFileChange(abs, false)
	require.NoError(t, fw.RemoveAll())

	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, calls.Load())
	assert.Empty(t, fw.callbacks)
}

func TestRemoveAllContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.stl")
	second := filepath.Join(dir, "b.stl")
	for _, path := range []string{first, second} {
		require.NoError(t, os.WriteFile(path, []byte("solid a\nendsolid a\n"), 0o644))
	}

	fw, err := NewFileWatcher(time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.Watch([]string{first, second}, func(string) {}))

	// drop one watch behind the watcher's back so its removal fails
	require.NoError(t, fw.watcher.Remove(first))

	err = fw.RemoveAll()
	require.ErrorIs(t, err, fsnotify.ErrNonExistentWatch)
	assert.Empty(t, fw.callbacks)
	assert.Empty(t, fw.watcher.WatchList())
}
