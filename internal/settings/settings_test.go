package settings

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/autoproject/internal/fsops"
	"github.com/danieljhkim/autoproject/internal/hash"
)

func TestSettings_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     Key
		raw     string
		want    Settings
		wantErr bool
	}{
		{name: "bool true", key: KeyOnlyActive, raw: "true", want: Settings{OnlyActive: true}},
		{name: "bool on", key: KeyRevealActiveFile, raw: "on", want: Settings{RevealActiveFile: true}},
		{name: "bool invalid", key: KeyOnlyActive, raw: "maybe", wantErr: true},
		{name: "list", key: KeyFirstFolders, raw: "/a, /b,,", want: Settings{FirstFolders: []string{"/a", "/b"}}},
		{name: "empty list", key: KeyLastFolders, raw: "", want: Settings{}},
		{name: "unknown key", key: Key("nope"), raw: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore(Default())
			err := store.Set(tt.key, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, store.Get())
		})
	}
}

func TestSettings_Folders(t *testing.T) {
	s := Settings{FirstFolders: []string{"/a"}, LastFolders: []string{"/z"}}
	assert.Equal(t, []string{"/a"}, s.Folders(KeyFirstFolders))
	assert.Equal(t, []string{"/z"}, s.Folders(KeyLastFolders))
	assert.Nil(t, s.Folders(KeyOnlyActive))
}

func TestMemoryStore_OnDidChange(t *testing.T) {
	store := NewMemoryStore(Settings{FirstFolders: []string{"/a"}})

	var changes []Change
	sub := store.OnDidChange(KeyFirstFolders, func(c Change) { changes = append(changes, c) })

	t.Run("fires on change", func(t *testing.T) {
		require.NoError(t, store.SetFirstFolders([]string{"/a", "/b"}))
		require.Len(t, changes, 1)
		assert.Equal(t, KeyFirstFolders, changes[0].Key)
		assert.Equal(t, []string{"/a"}, changes[0].Old.FirstFolders)
		assert.Equal(t, []string{"/a", "/b"}, changes[0].New.FirstFolders)
	})

	t.Run("silent when value is unchanged", func(t *testing.T) {
		require.NoError(t, store.SetFirstFolders([]string{"/a", "/b"}))
		assert.Len(t, changes, 1)
	})

	t.Run("silent for other keys", func(t *testing.T) {
		require.NoError(t, store.SetOnlyActive(true))
		require.NoError(t, store.SetLastFolders([]string{"/z"}))
		assert.Len(t, changes, 1)
	})

	t.Run("silent after dispose", func(t *testing.T) {
		sub.Dispose()
		require.NoError(t, store.SetFirstFolders(nil))
		assert.Len(t, changes, 1)
	})

	t.Run("snapshot is isolated from callers", func(t *testing.T) {
		got := store.Get()
		got.LastFolders[0] = "/mutated"
		assert.Equal(t, []string{"/z"}, store.Get().LastFolders)
	})
}

func TestMemoryStore_HandlerMayReadStore(t *testing.T) {
	store := NewMemoryStore(Default())
	var seen bool
	store.OnDidChange(KeyOnlyActive, func(Change) { seen = store.Get().OnlyActive })

	require.NoError(t, store.SetOnlyActive(true))
	assert.True(t, seen)
}

func newFileStore(t *testing.T, content string) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	store, err := NewFileStore(fsops.NewRealFS(), hash.NewSHA256Hasher(), path, zerolog.Nop())
	require.NoError(t, err)
	return store, path
}

func TestFileStore_Load(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		store, _ := newFileStore(t, "")
		assert.Equal(t, Default(), store.Get())
	})

	t.Run("reads all keys", func(t *testing.T) {
		store, _ := newFileStore(t, "onlyActive: true\nfirstFolders:\n  - /a\n  - /b/\nlastFolders: [/z]\nrevealActiveFile: true\n")
		assert.Equal(t, Settings{
			OnlyActive:       true,
			FirstFolders:     []string{"/a", "/b/"},
			LastFolders:      []string{"/z"},
			RevealActiveFile: true,
		}, store.Get())
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("firstFolders: {"), 0644))
		_, err := NewFileStore(fsops.NewRealFS(), hash.NewSHA256Hasher(), path, zerolog.Nop())
		assert.Error(t, err)
	})
}

func TestFileStore_SetPersists(t *testing.T) {
	store, path := newFileStore(t, "")

	require.NoError(t, store.SetLastFolders([]string{"/x", "/y"}))
	require.NoError(t, store.SetOnlyActive(true))

	reopened, err := NewFileStore(fsops.NewRealFS(), hash.NewSHA256Hasher(), path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Settings{OnlyActive: true, LastFolders: []string{"/x", "/y"}}, reopened.Get())
}

func TestFileStore_Reload(t *testing.T) {
	store, path := newFileStore(t, "firstFolders: [/a]\n")

	var changed []Key
	store.OnDidChange(KeyFirstFolders, func(c Change) { changed = append(changed, c.Key) })
	store.OnDidChange(KeyOnlyActive, func(c Change) { changed = append(changed, c.Key) })

	t.Run("unchanged content is a no-op", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("firstFolders: [/a]\n"), 0644))
		require.NoError(t, store.Reload())
		assert.Empty(t, changed)
	})

	t.Run("external edit notifies changed keys", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("firstFolders: [/a, /b]\nonlyActive: true\n"), 0644))
		require.NoError(t, store.Reload())
		assert.Equal(t, []Key{KeyOnlyActive, KeyFirstFolders}, changed)
	})

	t.Run("malformed edit keeps previous settings", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("onlyActive: [\n"), 0644))
		assert.Error(t, store.Reload())
		assert.True(t, store.Get().OnlyActive)
	})

	t.Run("deleted file reverts to defaults", func(t *testing.T) {
		changed = nil
		require.NoError(t, os.Remove(path))
		require.NoError(t, store.Reload())
		assert.Equal(t, Default(), store.Get())
		assert.ElementsMatch(t, []Key{KeyOnlyActive, KeyFirstFolders}, changed)
	})
}

func TestFileStore_Watch(t *testing.T) {
	store, path := newFileStore(t, "")

	var mu sync.Mutex
	var got []string
	store.OnDidChange(KeyLastFolders, func(c Change) {
		mu.Lock()
		defer mu.Unlock()
		got = append([]string(nil), c.New.LastFolders...)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func(fn func()) { fn() })
	}()

	// Keep rewriting until the watcher has been registered and picked it up.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("lastFolders: [/late]\n"), 0644)
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0] == "/late"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestFileStore_FakeFS(t *testing.T) {
	fs := fsops.NewFakeFS()
	fs.AddFile("/cfg/settings.yaml", []byte("onlyActive: true\n"))

	store, err := NewFileStore(fs, hash.NewFakeHasher(), "/cfg/settings.yaml", zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, store.Get().OnlyActive)

	require.NoError(t, store.SetFirstFolders([]string{"/a"}))
	data, err := fs.ReadFile("/cfg/settings.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "firstFolders:")

	var changed []Key
	store.OnDidChange(KeyOnlyActive, func(c Change) { changed = append(changed, c.Key) })
	fs.AddFile("/cfg/settings.yaml", []byte("firstFolders: [/a]\n"))
	require.NoError(t, store.Reload())
	assert.Equal(t, []Key{KeyOnlyActive}, changed)
	assert.Equal(t, Settings{FirstFolders: []string{"/a"}}, store.Get())
}
