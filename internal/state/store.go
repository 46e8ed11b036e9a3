package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danieljhkim/autoproject/internal/fsops"
)

// StateStore provides an interface for persisting project state.
type StateStore interface {
	// LoadProject loads the project state of the named session.
	// Returns os.ErrNotExist if the state doesn't exist.
	LoadProject(session string) (*ProjectState, error)

	// SaveProject saves the project state atomically.
	SaveProject(state *ProjectState) error

	// DeleteProject deletes the state of the named session.
	// Deleting a missing session is not an error.
	DeleteProject(session string) error

	// ListProjects returns every persisted project state, sorted by session name.
	ListProjects() ([]*ProjectState, error)
}

// FileStateStore implements StateStore using JSON files on disk.
type FileStateStore struct {
	fs          fsops.FS
	sessionsDir string
}

// NewFileStateStore creates a new FileStateStore.
func NewFileStateStore(fs fsops.FS, sessionsDir string) *FileStateStore {
	return &FileStateStore{
		fs:          fs,
		sessionsDir: sessionsDir,
	}
}

func (s *FileStateStore) path(session string) string {
	return filepath.Join(s.sessionsDir, ComputeSessionID(session)+".json")
}

// LoadProject loads the project state of the named session.
func (s *FileStateStore) LoadProject(session string) (*ProjectState, error) {
	return s.load(s.path(session))
}

func (s *FileStateStore) load(path string) (*ProjectState, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read project state: %w", err)
	}

	var state ProjectState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project state: %w", err)
	}
	if state.Paths == nil {
		state.Paths = []string{}
	}

	return &state, nil
}

// SaveProject saves the project state atomically.
func (s *FileStateStore) SaveProject(state *ProjectState) error {
	if err := s.fs.ValidateIdentifier(state.Session); err != nil {
		return fmt.Errorf("failed to save project state: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project state: %w", err)
	}

	if err := s.fs.AtomicWrite(s.path(state.Session), data, 0644); err != nil {
		return fmt.Errorf("failed to write project state: %w", err)
	}

	return nil
}

// DeleteProject deletes the state of the named session.
func (s *FileStateStore) DeleteProject(session string) error {
	if err := s.fs.Remove(s.path(session)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete project state: %w", err)
	}

	return nil
}

// ListProjects returns every persisted project state, sorted by session name.
// A missing sessions directory yields an empty list.
func (s *FileStateStore) ListProjects() ([]*ProjectState, error) {
	exists, err := s.fs.Exists(s.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to check sessions directory: %w", err)
	}
	if !exists {
		return []*ProjectState{}, nil
	}

	entries, err := s.fs.ReadDir(s.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	states := []*ProjectState{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		state, err := s.load(filepath.Join(s.sessionsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", entry.Name(), err)
		}
		states = append(states, state)
	}

	sort.Slice(states, func(i, j int) bool {
		return states[i].Session < states[j].Session
	})
	return states, nil
}
