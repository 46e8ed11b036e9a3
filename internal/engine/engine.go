// Package engine keeps the editor's project folders in sync with its open files.
//
// The engine acts as the orchestration layer between the host (editor
// workspace, project, settings) and the reconciliation core. It owns all
// mutable state: the validated first/last folders, the host subscriptions and
// the pending-update flag. Every method must be called from the host's event
// loop; nothing here is safe for concurrent use.
//
// Key components:
//   - Engine: binds host events and schedules updates
//   - folders.Set: validated first/last folders
//   - resolver.Resolver: open items to directories
//   - reconcile.Reconcile: commit/suppress decision
package engine

import (
	"github.com/rs/zerolog"

	"github.com/danieljhkim/autoproject/internal/eventloop"
	"github.com/danieljhkim/autoproject/internal/folders"
	"github.com/danieljhkim/autoproject/internal/fsops"
	"github.com/danieljhkim/autoproject/internal/gitx"
	"github.com/danieljhkim/autoproject/internal/host"
	"github.com/danieljhkim/autoproject/internal/metrics"
	"github.com/danieljhkim/autoproject/internal/reconcile"
	"github.com/danieljhkim/autoproject/internal/resolver"
	"github.com/danieljhkim/autoproject/internal/settings"
)

// Deps are the collaborators of an Engine.
type Deps struct {
	Workspace host.Workspace
	Project   host.Project
	Settings  settings.Store
	FS        fsops.FS
	Git       gitx.GitRepo
	Scheduler eventloop.Scheduler

	// Revealer is optional.
	Revealer host.Revealer
	// Metrics is optional.
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// Engine orchestrates project folder updates.
type Engine struct {
	workspace host.Workspace
	project   host.Project
	settings  settings.Store
	scheduler eventloop.Scheduler
	revealer  host.Revealer
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	folders  *folders.Set
	resolver *resolver.Resolver

	disposables   *host.CompositeDisposable
	onlyActiveSub host.Disposable
	active        bool
	pending       bool
}

// New creates a new Engine with the given dependencies. Call Activate to start.
func New(d Deps) *Engine {
	logger := d.Logger.With().Str("component", "engine").Logger()
	return &Engine{
		workspace: d.Workspace,
		project:   d.Project,
		settings:  d.Settings,
		scheduler: d.Scheduler,
		revealer:  d.Revealer,
		metrics:   d.Metrics,
		logger:    logger,
		folders:   folders.New(d.FS, d.Logger),
		resolver:  resolver.New(d.Git, d.Logger),
	}
}

// Active reports whether the engine is bound to the host.
func (e *Engine) Active() bool {
	return e.active
}

// FirstPaths returns the validated first folders.
func (e *Engine) FirstPaths() []string {
	return e.folders.First()
}

// LastPaths returns the validated last folders.
func (e *Engine) LastPaths() []string {
	return e.folders.Last()
}

// ScheduleUpdate requests a reconciliation pass after the current event.
// Requests made while one is pending collapse into it; the pass reads the
// state current at the time it runs.
func (e *Engine) ScheduleUpdate() {
	if !e.active || e.pending {
		return
	}
	e.pending = true
	e.scheduler.Defer(func() {
		e.pending = false
		if !e.active {
			return
		}
		e.update()
	})
}

// Reconcile computes the decision for the current state without applying it.
func (e *Engine) Reconcile() reconcile.Decision {
	mode := resolver.ModeAll
	if e.settings.Get().OnlyActive {
		mode = resolver.ModeOnlyActive
	}

	current := e.project.Paths()
	middle, ok := e.resolver.Resolve(resolver.Input{
		Mode:    mode,
		Items:   e.workspace.PaneItems(),
		Active:  e.workspace.ActivePaneItem(),
		Exclude: e.folders.Contains,
		Current: current,
	})
	return reconcile.Reconcile(e.folders.First(), middle, e.folders.Last(), ok, current)
}

func (e *Engine) update() {
	d := e.Reconcile()
	e.metrics.RecordDecision(string(d.Result))
	if !d.Commit() {
		e.logger.Debug().Str("result", string(d.Result)).Strs("paths", d.Paths).Msg("project update suppressed")
		return
	}
	e.commit(d.Paths)
}

// commitEdges makes the configured folders the whole project.
func (e *Engine) commitEdges() {
	edges := e.folders.Edges()
	switch {
	case e.folders.Empty():
		e.metrics.RecordDecision(string(reconcile.ResultEmpty))
		e.logger.Debug().Msg("no configured folders; keeping project")
	case reconcile.Equal(edges, e.project.Paths()):
		e.metrics.RecordDecision(string(reconcile.ResultUnchanged))
	default:
		e.metrics.RecordDecision(string(reconcile.ResultCommit))
		e.commit(edges)
	}
}

func (e *Engine) commit(paths []string) {
	if err := e.project.SetPaths(paths); err != nil {
		e.logger.Error().Err(err).Strs("paths", paths).Msg("failed to set project paths")
		return
	}
	e.metrics.SetProjectPaths(len(paths))
	e.logger.Info().Strs("paths", paths).Msg("project paths updated")

	if e.revealer != nil && e.settings.Get().RevealActiveFile {
		e.revealer.RevealActiveFile()
	}
}
