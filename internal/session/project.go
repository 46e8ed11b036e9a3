package session

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/autoproject/internal/clock"
	"github.com/danieljhkim/autoproject/internal/state"
)

// Project implements host.Project. Every write is sent to the editor and
// persisted as the session's project state.
type Project struct {
	name   string
	store  state.StateStore
	clock  clock.Clock
	out    *Emitter
	logger zerolog.Logger

	paths []string
}

// NewProject creates the project of the named session, starting from its
// persisted paths if there are any.
func NewProject(name string, store state.StateStore, clk clock.Clock, out *Emitter, logger zerolog.Logger) (*Project, error) {
	p := &Project{
		name:   name,
		store:  store,
		clock:  clk,
		out:    out,
		logger: logger.With().Str("component", "project").Str("session", name).Logger(),
		paths:  []string{},
	}

	st, err := store.LoadProject(name)
	switch {
	case err == nil:
		p.paths = slices.Clone(st.Paths)
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to load project state: %w", err)
	}
	return p, nil
}

// Name returns the session name.
func (p *Project) Name() string {
	return p.name
}

// Paths returns the current project root folders.
func (p *Project) Paths() []string {
	return slices.Clone(p.paths)
}

// SetPaths sends the new root folders to the editor and, once it has them,
// records and persists them. A failed send leaves the project unchanged so
// the next pass retries. A failed save is only logged: the editor already
// shows the new folders.
func (p *Project) SetPaths(paths []string) error {
	next := slices.Clone(paths)
	if err := p.out.Emit(Message{Type: EventProjectPaths, Paths: next}); err != nil {
		return err
	}
	p.paths = next

	if err := p.persist(); err != nil {
		p.logger.Warn().Err(err).Strs("paths", next).Msg("project state not saved")
	}
	return nil
}

// Replace records folders the editor reports on its own, without echoing them back.
func (p *Project) Replace(paths []string) error {
	if paths == nil {
		paths = []string{}
	}
	p.paths = slices.Clone(paths)
	return p.persist()
}

func (p *Project) persist() error {
	st := state.NewProjectState(p.name)
	st.Paths = p.Paths()
	st.UpdatedAt = p.clock.Now()
	if err := p.store.SaveProject(st); err != nil {
		return fmt.Errorf("failed to persist project paths: %w", err)
	}
	p.logger.Debug().Strs("paths", st.Paths).Msg("project state saved")
	return nil
}
