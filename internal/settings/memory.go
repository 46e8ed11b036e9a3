package settings

import (
	"sync"

	"github.com/danieljhkim/autoproject/internal/host"
)

// MemoryStore implements Store in memory.
type MemoryStore struct {
	mu       sync.Mutex
	current  Settings
	notifier notifier
}

// NewMemoryStore creates a MemoryStore holding initial.
func NewMemoryStore(initial Settings) *MemoryStore {
	return &MemoryStore{current: initial.Clone()}
}

// Get returns a snapshot of the current settings.
func (s *MemoryStore) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Replace swaps all settings at once, notifying every changed key.
func (s *MemoryStore) Replace(next Settings) {
	s.update(func(cur *Settings) error {
		*cur = next.Clone()
		return nil
	})
}

func (s *MemoryStore) SetOnlyActive(v bool) error {
	return s.update(func(cur *Settings) error { cur.OnlyActive = v; return nil })
}

func (s *MemoryStore) SetFirstFolders(paths []string) error {
	return s.update(func(cur *Settings) error { cur.FirstFolders = cloneList(paths); return nil })
}

func (s *MemoryStore) SetLastFolders(paths []string) error {
	return s.update(func(cur *Settings) error { cur.LastFolders = cloneList(paths); return nil })
}

func (s *MemoryStore) SetRevealActiveFile(v bool) error {
	return s.update(func(cur *Settings) error { cur.RevealActiveFile = v; return nil })
}

func (s *MemoryStore) Set(key Key, raw string) error {
	return s.update(func(cur *Settings) error { return cur.apply(key, raw) })
}

// OnDidChange subscribes fn to changes of key.
func (s *MemoryStore) OnDidChange(key Key, fn func(Change)) host.Disposable {
	return s.notifier.subscribe(key, fn)
}

func (s *MemoryStore) update(mutate func(*Settings) error) error {
	s.mu.Lock()
	old := s.current.Clone()
	next := s.current.Clone()
	if err := mutate(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = next
	s.mu.Unlock()

	s.notifier.emit(old, next)
	return nil
}

func cloneList(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	return append([]string(nil), paths...)
}
