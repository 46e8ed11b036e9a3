// Package folders maintains the configured first and last project folders.
//
// Configured folders are validated against the filesystem when the
// configuration is (re)read. Entries that are not existing directories are
// dropped silently; survivors keep their configured order. Validation is not
// repeated until the next refresh, so a folder removed afterwards stays listed.
package folders

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/autoproject/internal/fsops"
)

// Set holds the validated first and last folders and their union.
type Set struct {
	fs     fsops.FS
	logger zerolog.Logger

	first   []string
	last    []string
	members map[string]struct{}
}

// New creates an empty Set.
func New(fs fsops.FS, logger zerolog.Logger) *Set {
	return &Set{
		fs:      fs,
		logger:  logger.With().Str("component", "folders").Logger(),
		members: make(map[string]struct{}),
	}
}

// Normalize returns the canonical form of a folder path: cleaned, without a
// trailing separator.
func Normalize(path string) string {
	return filepath.Clean(path)
}

// Refresh replaces the folders with the valid entries of rawFirst and rawLast.
// Duplicates are kept; only the union used for exclusion is deduplicated.
func (s *Set) Refresh(rawFirst, rawLast []string) {
	s.first = s.validPaths(rawFirst)
	s.last = s.validPaths(rawLast)

	s.members = make(map[string]struct{}, len(s.first)+len(s.last))
	for _, p := range s.first {
		s.members[p] = struct{}{}
	}
	for _, p := range s.last {
		s.members[p] = struct{}{}
	}
}

// ShouldRefresh reports whether every entry of raw is an existing directory.
// Configuration edits pass through invalid intermediate values (a path being
// typed); those are ignored until the list validates as a whole.
func (s *Set) ShouldRefresh(raw []string) bool {
	for _, p := range raw {
		if !s.fs.IsDir(p) {
			return false
		}
	}
	return true
}

// First returns the validated first folders.
func (s *Set) First() []string {
	return append([]string(nil), s.first...)
}

// Last returns the validated last folders.
func (s *Set) Last() []string {
	return append([]string(nil), s.last...)
}

// Edges returns first followed by last.
func (s *Set) Edges() []string {
	edges := make([]string, 0, len(s.first)+len(s.last))
	edges = append(edges, s.first...)
	return append(edges, s.last...)
}

// Contains reports whether path is one of the configured folders.
func (s *Set) Contains(path string) bool {
	_, ok := s.members[path]
	return ok
}

// Empty reports whether no folder is configured.
func (s *Set) Empty() bool {
	return len(s.first) == 0 && len(s.last) == 0
}

// Invalid returns the entries of raw that would be dropped by Refresh.
func (s *Set) Invalid(raw []string) []string {
	var dropped []string
	for _, p := range raw {
		if !s.fs.IsDir(p) {
			dropped = append(dropped, p)
		}
	}
	return dropped
}

func (s *Set) validPaths(raw []string) []string {
	var valid []string
	for _, p := range raw {
		if !s.fs.IsDir(p) {
			s.logger.Debug().Str("path", p).Msg("dropping configured folder: not a directory")
			continue
		}
		valid = append(valid, Normalize(p))
	}
	return valid
}
