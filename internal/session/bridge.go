package session

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/autoproject/internal/eventloop"
	"github.com/danieljhkim/autoproject/internal/metrics"
)

const maxLineSize = 1 << 20

// Poster runs tasks on the event loop.
type Poster interface {
	Post(fn func()) bool
}

// CommandHandler runs a named user command.
type CommandHandler func(name string) error

// Bridge connects an editor's JSON-lines stream to a Workspace and Project.
// It also implements host.Revealer.
type Bridge struct {
	workspace *Workspace
	project   *Project
	out       *Emitter
	loop      Poster
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	commands CommandHandler
}

// NewBridge creates a Bridge. metrics may be nil.
func NewBridge(workspace *Workspace, project *Project, out *Emitter, loop Poster, m *metrics.Metrics, logger zerolog.Logger) *Bridge {
	return &Bridge{
		workspace: workspace,
		project:   project,
		out:       out,
		loop:      loop,
		metrics:   m,
		logger:    logger.With().Str("component", "bridge").Logger(),
	}
}

// HandleCommands routes command events to fn.
func (b *Bridge) HandleCommands(fn CommandHandler) {
	b.commands = fn
}

// Serve reads events from r and posts each one to the event loop until r is
// exhausted, ctx is done or the loop is closed. Reaching EOF is not an error.
func (b *Bridge) Serve(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := append([]byte(nil), scanner.Bytes()...)
		if len(line) == 0 {
			continue
		}
		if !b.loop.Post(func() { b.Handle(line) }) {
			return eventloop.ErrClosed
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}
	return nil
}

// Handle decodes and applies one event. Rejected events are reported to the
// editor as error messages; they never stop the bridge.
func (b *Bridge) Handle(line []byte) {
	ev, err := Decode(line)
	if err != nil {
		b.reject("unknown", err)
		return
	}

	if err := b.apply(ev); err != nil {
		b.reject(ev.Type, err)
		return
	}
	b.metrics.RecordBridgeEvent(ev.Type, "ok")
}

func (b *Bridge) apply(ev Event) error {
	switch ev.Type {
	case EventOpen:
		return b.workspace.Open(ev.ID, ev.Path, ev.Kind)
	case EventRename:
		return b.workspace.Rename(ev.ID, ev.Path)
	case EventClose:
		return b.workspace.Close(ev.ID)
	case EventActivate:
		return b.workspace.Activate(ev.ID)
	case EventPaths:
		return b.project.Replace(ev.Paths)
	case EventCommand:
		if b.commands == nil {
			return fmt.Errorf("no command handler for %q", ev.Name)
		}
		return b.commands(ev.Name)
	}
	return fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, ev.Type)
}

func (b *Bridge) reject(eventType string, err error) {
	b.metrics.RecordBridgeEvent(eventType, "error")
	b.logger.Warn().Err(err).Str("type", eventType).Msg("rejected event")
	if emitErr := b.out.Emit(Message{Type: EventError, Message: err.Error()}); emitErr != nil {
		b.logger.Error().Err(emitErr).Msg("failed to report rejected event")
	}
}

// RevealActiveFile asks the editor to select the active file in its tree view.
func (b *Bridge) RevealActiveFile() {
	path := b.workspace.ActivePath()
	if path == "" {
		return
	}
	if err := b.out.Emit(Message{Type: EventReveal, Path: path}); err != nil {
		b.logger.Error().Err(err).Msg("failed to send reveal")
	}
}
