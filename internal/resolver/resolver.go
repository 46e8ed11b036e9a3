// Package resolver maps open editor items to project directories.
//
// Each file-backed item contributes the directory containing its file, or the
// working directory of the repository enclosing that directory. The result is
// deduplicated and ordered so that directories already present in the project
// keep their current position and new ones are appended in discovery order.
package resolver

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/autoproject/internal/gitx"
	"github.com/danieljhkim/autoproject/internal/host"
)

// Mode selects which items contribute directories.
type Mode int

const (
	// ModeAll considers every open item.
	ModeAll Mode = iota
	// ModeOnlyActive considers only the active item.
	ModeOnlyActive
)

func (m Mode) String() string {
	if m == ModeOnlyActive {
		return "only-active"
	}
	return "all"
}

// Input is everything a resolution pass reads.
type Input struct {
	Mode   Mode
	Items  []host.Item
	Active host.Item

	// Exclude reports directories that belong to the fixed edges.
	Exclude func(dir string) bool

	// Current is the project path list, used as the ordering hint.
	Current []string
}

// Resolver resolves items to directories.
type Resolver struct {
	git    gitx.GitRepo
	logger zerolog.Logger
}

// New creates a Resolver using git for working-directory lookups.
func New(git gitx.GitRepo, logger zerolog.Logger) *Resolver {
	return &Resolver{
		git:    git,
		logger: logger.With().Str("component", "resolver").Logger(),
	}
}

// Resolve returns the ordered, deduplicated directories of the relevant items.
// ok is false when the active item's path is not known yet; callers must not
// reconcile at all in that case, as opposed to an empty result which means
// "nothing to contribute".
func (r *Resolver) Resolve(in Input) (dirs []string, ok bool) {
	items := in.Items
	if in.Mode == ModeOnlyActive {
		if in.Active == nil {
			return []string{}, true
		}
		if path, hasPath := host.ItemPath(in.Active); !hasPath || path == "" {
			r.logger.Debug().Stringer("mode", in.Mode).Str("item", in.Active.ItemID()).Msg("active item has no path yet")
			return nil, false
		}
		items = []host.Item{in.Active}
	}

	opened := make(map[string]struct{})
	var discovered []string
	for _, item := range items {
		file, hasPath := host.ItemPath(item)
		if !hasPath || file == "" {
			continue
		}
		dir := r.Dir(file)
		if in.Exclude != nil && in.Exclude(dir) {
			continue
		}
		if _, seen := opened[dir]; seen {
			continue
		}
		opened[dir] = struct{}{}
		discovered = append(discovered, dir)
	}

	return StableOrder(discovered, in.Current), true
}

// Dir returns the project directory for file.
func (r *Resolver) Dir(file string) string {
	dir := filepath.Dir(file)
	return filepath.Clean(gitx.WorkingDir(r.git, dir))
}

// StableOrder orders dirs so that entries present in current come first, in
// current's order, followed by the remaining entries in their original order.
// dirs must not contain duplicates.
func StableOrder(dirs, current []string) []string {
	pending := make(map[string]struct{}, len(dirs))
	for _, d := range dirs {
		pending[d] = struct{}{}
	}

	ordered := make([]string, 0, len(dirs))
	for _, p := range current {
		if _, ok := pending[p]; ok {
			ordered = append(ordered, p)
			delete(pending, p)
		}
	}
	for _, d := range dirs {
		if _, ok := pending[d]; ok {
			ordered = append(ordered, d)
		}
	}
	return ordered
}
