// Package config manages autoproject configuration and filesystem paths.
//
// Process-level configuration comes from the environment (see Env). The data
// root, ~/.autoproject unless AUTOPROJECT_ROOT is set, holds the user settings
// file and the persisted project state of each session.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the on-disk layout under the data root.
type Paths struct {
	Root string

	// Sessions holds one state file per session.
	Sessions string

	// Settings is the YAML settings file.
	Settings string
}

// ResolvePaths lays out the data directories under root, or under
// ~/.autoproject when root is empty.
func ResolvePaths(root string) (*Paths, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".autoproject")
	}
	return NewPaths(root), nil
}

// NewPaths lays out the data directories under root.
func NewPaths(root string) *Paths {
	root = filepath.Clean(root)
	return &Paths{
		Root:     root,
		Sessions: filepath.Join(root, "sessions"),
		Settings: filepath.Join(root, "settings.yaml"),
	}
}

// EnsureDirectories creates the root and sessions directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Root, p.Sessions} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
