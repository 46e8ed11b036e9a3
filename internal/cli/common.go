package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/autoproject/internal/config"
	"github.com/danieljhkim/autoproject/internal/fsops"
	"github.com/danieljhkim/autoproject/internal/hash"
	"github.com/danieljhkim/autoproject/internal/settings"
	"github.com/danieljhkim/autoproject/internal/state"
)

// errReadOnlyProject is returned when a command tries to write a project it
// only read from persisted state.
var errReadOnlyProject = errors.New("project paths can only be changed by the running session")

// runtime holds the real implementations shared by every command.
type runtime struct {
	env      *config.Env
	paths    *config.Paths
	fs       fsops.FS
	settings *settings.FileStore
	states   *state.FileStateStore
	logger   zerolog.Logger
}

// newRuntime loads the environment and opens the settings file and state store.
func newRuntime() (*runtime, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}

	paths, err := config.ResolvePaths(env.Root)
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	logger := newLogger(env, os.Stderr)
	fs := fsops.NewRealFS()

	store, err := settings.NewFileStore(fs, hash.NewSHA256Hasher(), paths.Settings, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return &runtime{
		env:      env,
		paths:    paths,
		fs:       fs,
		settings: store,
		states:   state.NewFileStateStore(fs, paths.Sessions),
		logger:   logger,
	}, nil
}

// newLogger builds the root logger. Logs always go to w, never to the
// bridge's output stream.
func newLogger(env *config.Env, w io.Writer) zerolog.Logger {
	out := w
	if env.LogFormat == config.LogFormatConsole {
		out = zerolog.ConsoleWriter{Out: w}
	}
	logger := zerolog.New(out).With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(env.LogLevel)
	if err != nil {
		logger.Warn().Str("level", env.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

// sessionName returns the --session flag value, falling back to AUTOPROJECT_SESSION.
func (rt *runtime) sessionName(flag string) string {
	if flag != "" {
		return flag
	}
	return rt.env.Session
}

// loadProject reads the persisted project of a session.
func (rt *runtime) loadProject(session string) (*state.ProjectState, error) {
	st, err := rt.states.LoadProject(session)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no project state for session %q (start it with 'autoproject run --session %s')", session, session)
	}
	return st, err
}

// savedProject exposes persisted project paths as a read-only host.Project.
type savedProject struct {
	state *state.ProjectState
}

func (p savedProject) Paths() []string {
	return slices.Clone(p.state.Paths)
}

func (p savedProject) SetPaths([]string) error {
	return errReadOnlyProject
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v interface{}) error {
	out, err := formatJSON(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, out)
	return err
}
