package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher(t *testing.T) {
	t.Run("Should report writes to watched files only", func(t *testing.T) {
		dir := t.TempDir()
		watched := filepath.Join(dir, "streams.atmosphere")
		other := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(watched, []byte("<streams/>"), 0o644))

		w, err := NewWatcher(t.Context())
		require.NoError(t, err)
		defer w.Close()

		var mu sync.Mutex
		var seen []string
		w.OnChange(func(path string) {
			mu.Lock()
			seen = append(seen, path)
			mu.Unlock()
		})
		require.NoError(t, w.Watch(watched))

		require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(watched, []byte("<streams></streams>"), 0o644))

		assert.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(seen) > 0
		}, 2*time.Second, 20*time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		for _, path := range seen {
			assert.Equal(t, watched, path)
		}
	})

	t.Run("Should keep tracking a file replaced by rename", func(t *testing.T) {
		dir := t.TempDir()
		watched := filepath.Join(dir, "streams.ocean")
		require.NoError(t, os.WriteFile(watched, []byte("<streams/>"), 0o644))

		w, err := NewWatcher(t.Context())
		require.NoError(t, err)
		defer w.Close()

		changed := make(chan string, 16)
		w.OnChange(func(path string) { changed <- path })
		require.NoError(t, w.Watch(watched))

		tmp := filepath.Join(dir, ".streams.ocean.swp")
		require.NoError(t, os.WriteFile(tmp, []byte("<streams></streams>"), 0o644))
		require.NoError(t, os.Rename(tmp, watched))

		select {
		case path := <-changed:
			assert.Equal(t, watched, path)
		case <-time.After(2 * time.Second):
			t.Fatal("no change reported")
		}
	})

	t.Run("Should close more than once", func(t *testing.T) {
		w, err := NewWatcher(t.Context())
		require.NoError(t, err)
		require.NoError(t, w.Watch(filepath.Join(t.TempDir(), "streams.xml")))
		require.NoError(t, w.Close())
		require.NoError(t, w.Close())
		select {
		case <-w.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("event loop did not stop")
		}
	})

	t.Run("Should report matching files created in new directories of a tree", func(t *testing.T) {
		root := t.TempDir()
		w, err := NewWatcher(t.Context())
		require.NoError(t, err)
		defer w.Close()

		changed := make(chan string, 64)
		w.OnChange(func(path string) { changed <- path })
		require.NoError(t, w.WatchTree(root, func(rel string) bool {
			return filepath.Base(rel) == "streams.land"
		}))

		require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
		nested := filepath.Join(root, "runs", "a", "streams.land")
		require.NoError(t, os.MkdirAll(filepath.Dir(nested), 0o755))
		require.NoError(t, os.WriteFile(nested, []byte("<streams/>"), 0o644))

		select {
		case path := <-changed:
			assert.Equal(t, nested, path)
		case <-time.After(2 * time.Second):
			t.Fatal("new file not reported")
		}
	})

	t.Run("Should pass paths relative to the tree root", func(t *testing.T) {
		root := t.TempDir()
		w, err := NewWatcher(t.Context())
		require.NoError(t, err)
		defer w.Close()

		rels := make(chan string, 64)
		require.NoError(t, w.WatchTree(root, func(rel string) bool {
			rels <- rel
			return false
		}))
		require.NoError(t, os.WriteFile(filepath.Join(root, "streams.ocean"), []byte("<streams/>"), 0o644))

		select {
		case rel := <-rels:
			assert.Equal(t, "streams.ocean", rel)
		case <-time.After(2 * time.Second):
			t.Fatal("no event matched")
		}
	})

	t.Run("Should fail on a missing tree root", func(t *testing.T) {
		w, err := NewWatcher(t.Context())
		require.NoError(t, err)
		defer w.Close()
		assert.Error(t, w.WatchTree(filepath.Join(t.TempDir(), "missing"), func(string) bool { return true }))
	})
}
