package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/autoproject/internal/clock"
	"github.com/danieljhkim/autoproject/internal/engine"
	"github.com/danieljhkim/autoproject/internal/eventloop"
	"github.com/danieljhkim/autoproject/internal/fsops"
	"github.com/danieljhkim/autoproject/internal/gitx"
	"github.com/danieljhkim/autoproject/internal/hash"
	"github.com/danieljhkim/autoproject/internal/metrics"
	"github.com/danieljhkim/autoproject/internal/session"
	"github.com/danieljhkim/autoproject/internal/settings"
	"github.com/danieljhkim/autoproject/internal/state"
)

// inlinePoster runs posted tasks on the calling goroutine.
type inlinePoster struct{}

func (inlinePoster) Post(fn func()) bool {
	fn()
	return true
}

// harness wires a complete session on real files. Deferred updates are held
// by a manual scheduler so each test decides when they run.
type harness struct {
	t        *testing.T
	root     string
	settings *settings.FileStore
	states   *state.FileStateStore
	sched    *eventloop.ManualScheduler
	project  *session.Project
	bridge   *session.Bridge
	engine   *engine.Engine
	out      *bytes.Buffer
}

// newHarness starts session name with its data under root. settingsYAML is
// written before the settings are loaded when not empty.
func newHarness(t *testing.T, root, name, settingsYAML string) *harness {
	t.Helper()

	fs := fsops.NewRealFS()
	settingsPath := filepath.Join(root, "settings.yaml")
	if settingsYAML != "" {
		if err := os.MkdirAll(root, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(settingsPath, []byte(settingsYAML), 0644); err != nil {
			t.Fatal(err)
		}
	}

	store, err := settings.NewFileStore(fs, hash.NewSHA256Hasher(), settingsPath, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	h := &harness{
		t:        t,
		root:     root,
		settings: store,
		states:   state.NewFileStateStore(fs, filepath.Join(root, "sessions")),
		sched:    eventloop.NewManualScheduler(),
		out:      &bytes.Buffer{},
	}

	emitter := session.NewEmitter(h.out)
	clk := clock.NewFakeClock(time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC))
	h.project, err = session.NewProject(name, h.states, clk, emitter, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProject() error = %v", err)
	}

	ws := session.NewWorkspace()
	m := metrics.New()
	h.bridge = session.NewBridge(ws, h.project, emitter, inlinePoster{}, m, zerolog.Nop())
	h.engine = engine.New(engine.Deps{
		Workspace: ws,
		Project:   h.project,
		Settings:  store,
		FS:        fs,
		Git:       gitx.NewRealGitRepo(),
		Scheduler: h.sched,
		Revealer:  h.bridge,
		Metrics:   m,
		Logger:    zerolog.Nop(),
	})
	h.bridge.HandleCommands(h.engine.Run)
	h.engine.Activate()
	h.sched.Flush()
	t.Cleanup(h.engine.Deactivate)
	return h
}

// send handles one event and runs the updates it scheduled.
func (h *harness) send(format string, args ...interface{}) {
	h.t.Helper()
	h.bridge.Handle([]byte(fmt.Sprintf(format, args...)))
	h.sched.Flush()
}

// messages returns every message written so far.
func (h *harness) messages() []session.Message {
	h.t.Helper()
	var msgs []session.Message
	scanner := bufio.NewScanner(bytes.NewReader(h.out.Bytes()))
	for scanner.Scan() {
		var m session.Message
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			h.t.Fatalf("invalid message %q: %v", scanner.Text(), err)
		}
		msgs = append(msgs, m)
	}
	return msgs
}

// updates returns the paths of every projectPaths message.
func (h *harness) updates() [][]string {
	var out [][]string
	for _, m := range h.messages() {
		if m.Type == session.EventProjectPaths {
			out = append(out, m.Paths)
		}
	}
	return out
}

// lastUpdate returns the most recent projectPaths message, or nil.
func (h *harness) lastUpdate() []string {
	updates := h.updates()
	if len(updates) == 0 {
		return nil
	}
	return updates[len(updates)-1]
}

// tempDir returns a symlink-free temporary directory.
func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return dir
}

// mkdirs creates each directory under base and returns their paths.
func mkdirs(t *testing.T, base string, names ...string) []string {
	t.Helper()
	dirs := make([]string, 0, len(names))
	for _, name := range names {
		dir := filepath.Join(base, name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

// gitInit turns dir into a git repository, skipping the test without git.
func gitInit(t *testing.T, dir string) {
	t.Helper()
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Skipf("git not available: %v", err)
	}
}

// openEvent renders an open event for a file-backed item.
func openEvent(id, path string) string {
	return fmt.Sprintf(`{"type":"open","id":%q,"path":%q}`, id, path)
}
