package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/autoproject/internal/fsops"
	"github.com/danieljhkim/autoproject/internal/hash"
	"github.com/danieljhkim/autoproject/internal/host"
)

// FileStore implements Store on top of a YAML file.
// A missing file means default settings.
type FileStore struct {
	fs     fsops.FS
	hasher hash.Hasher
	path   string
	logger zerolog.Logger

	mu       sync.Mutex
	current  Settings
	lastHash string
	notifier notifier
}

// NewFileStore loads the settings file at path.
func NewFileStore(fs fsops.FS, hasher hash.Hasher, path string, logger zerolog.Logger) (*FileStore, error) {
	s := &FileStore{
		fs:      fs,
		hasher:  hasher,
		path:    filepath.Clean(path),
		logger:  logger.With().Str("component", "settings").Logger(),
		current: Default(),
	}

	data, digest, err := s.read()
	if err != nil {
		return nil, err
	}
	settings, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	s.current = settings
	s.lastHash = digest
	return s, nil
}

// Path returns the settings file location.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns a snapshot of the current settings.
func (s *FileStore) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

func (s *FileStore) SetOnlyActive(v bool) error {
	return s.update(func(cur *Settings) error { cur.OnlyActive = v; return nil })
}

func (s *FileStore) SetFirstFolders(paths []string) error {
	return s.update(func(cur *Settings) error { cur.FirstFolders = cloneList(paths); return nil })
}

func (s *FileStore) SetLastFolders(paths []string) error {
	return s.update(func(cur *Settings) error { cur.LastFolders = cloneList(paths); return nil })
}

func (s *FileStore) SetRevealActiveFile(v bool) error {
	return s.update(func(cur *Settings) error { cur.RevealActiveFile = v; return nil })
}

func (s *FileStore) Set(key Key, raw string) error {
	return s.update(func(cur *Settings) error { return cur.apply(key, raw) })
}

// OnDidChange subscribes fn to changes of key.
func (s *FileStore) OnDidChange(key Key, fn func(Change)) host.Disposable {
	return s.notifier.subscribe(key, fn)
}

// Reload re-reads the file and notifies subscribers of changed keys.
// A malformed file leaves the current settings untouched.
func (s *FileStore) Reload() error {
	data, digest, err := s.read()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if digest == s.lastHash {
		s.mu.Unlock()
		return nil
	}
	next, err := decode(data)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	old := s.current
	s.current = next
	s.lastHash = digest
	s.mu.Unlock()

	s.logger.Debug().Str("path", s.path).Msg("settings reloaded")
	s.notifier.emit(old, next)
	return nil
}

// Watch reloads the settings whenever the file changes on disk, until ctx is done.
// Each reload runs through dispatch so subscribers are notified on the caller's
// event loop. The parent directory is watched because editors and our own
// AtomicWrite replace the file rather than writing in place.
func (s *FileStore) Watch(ctx context.Context, dispatch func(func())) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if !s.changedOnDisk() {
				continue
			}
			dispatch(func() {
				if err := s.Reload(); err != nil {
					s.logger.Warn().Err(err).Msg("keeping previous settings")
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn().Err(err).Msg("settings watcher error")
		}
	}
}

func (s *FileStore) changedOnDisk() bool {
	digest, err := s.hasher.HashFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return true
		}
		digest = ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return digest != s.lastHash
}

func (s *FileStore) update(mutate func(*Settings) error) error {
	s.mu.Lock()
	old := s.current.Clone()
	next := s.current.Clone()
	if err := mutate(&next); err != nil {
		s.mu.Unlock()
		return err
	}

	data, err := yaml.Marshal(&next)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	s.current = next
	s.lastHash = s.hasher.HashBytes(data)
	s.mu.Unlock()

	s.notifier.emit(old, next)
	return nil
}

// read returns the file content and its digest; a missing file yields empty content.
func (s *FileStore) read() ([]byte, string, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read settings: %w", err)
	}
	return data, s.hasher.HashBytes(data), nil
}

func decode(data []byte) (Settings, error) {
	settings := Default()
	if len(data) == 0 {
		return settings, nil
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Default(), err
	}
	return settings, nil
}
