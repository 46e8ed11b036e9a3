// Package gitx resolves version-control working directories.
//
// An open file is shown in the project under the top-level directory of the
// repository enclosing it, so the only question asked of git here is "which
// working directory, if any, contains this path".
package gitx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotInRepo indicates no enclosing repository was found.
var ErrNotInRepo = errors.New("not in a git repository")

// GitRepo provides an abstraction for git repository lookups.
type GitRepo interface {
	// Discover finds the working directory root of the repository enclosing dir.
	// Returns ErrNotInRepo if dir is not inside a repository.
	Discover(dir string) (root string, err error)
}

// WorkingDir returns the working directory enclosing dir, or dir itself when
// no repository is found.
func WorkingDir(repo GitRepo, dir string) string {
	if repo == nil {
		return dir
	}
	root, err := repo.Discover(dir)
	if err != nil || root == "" {
		return dir
	}
	return root
}

// RealGitRepo implements GitRepo by walking the filesystem.
type RealGitRepo struct{}

// NewRealGitRepo creates a new RealGitRepo.
func NewRealGitRepo() *RealGitRepo {
	return &RealGitRepo{}
}

// Discover finds the git repository root by walking up from dir looking for .git.
func (g *RealGitRepo) Discover(dir string) (string, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := absPath
	for {
		gitDir := filepath.Join(current, ".git")
		if info, err := os.Stat(gitDir); err == nil {
			// .git can be a directory or a file (for worktrees/submodules)
			if info.IsDir() || info.Mode().IsRegular() {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNotInRepo
		}
		current = parent
	}
}

// FakeGitRepo implements GitRepo with a fixed set of repository roots for testing.
type FakeGitRepo struct {
	roots []string
	err   error
	calls int
}

// NewFakeGitRepo creates a new FakeGitRepo knowing the given roots.
func NewFakeGitRepo(roots ...string) *FakeGitRepo {
	g := &FakeGitRepo{}
	for _, r := range roots {
		g.AddRoot(r)
	}
	return g
}

// AddRoot registers another repository root.
func (g *FakeGitRepo) AddRoot(root string) {
	g.roots = append(g.roots, filepath.Clean(root))
}

// SetError sets an error to be returned by Discover.
func (g *FakeGitRepo) SetError(err error) {
	g.err = err
}

// Calls returns how many times Discover was invoked.
func (g *FakeGitRepo) Calls() int {
	return g.calls
}

// Discover returns the innermost registered root enclosing dir.
func (g *FakeGitRepo) Discover(dir string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}

	dir = filepath.Clean(dir)
	best := ""
	for _, root := range g.roots {
		if dir == root || strings.HasPrefix(dir, root+string(filepath.Separator)) || root == string(filepath.Separator) {
			if len(root) > len(best) {
				best = root
			}
		}
	}
	if best == "" {
		return "", ErrNotInRepo
	}
	return best, nil
}
