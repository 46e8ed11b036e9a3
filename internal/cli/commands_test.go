package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danieljhkim/autoproject/internal/fsops"
	"github.com/danieljhkim/autoproject/internal/hash"
	"github.com/danieljhkim/autoproject/internal/session"
	"github.com/danieljhkim/autoproject/internal/settings"
	"github.com/danieljhkim/autoproject/internal/state"
	"github.com/rs/zerolog"
)

// setupTestEnv points the data root at a temporary directory.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "autoproject")
	t.Setenv("AUTOPROJECT_ROOT", root)
	t.Setenv("AUTOPROJECT_SESSION", "default")
	t.Setenv("AUTOPROJECT_LOG_LEVEL", "error")
	t.Setenv("AUTOPROJECT_LOG_FORMAT", "json")
	t.Setenv("AUTOPROJECT_METRICS_ADDR", "")
	return root
}

// captureStdout returns everything fn writes to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	var buf bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = io.Copy(&buf, r)
	}()

	defer func() {
		_ = w.Close()
		os.Stdout = oldStdout
		wg.Wait()
	}()
	fn()
	_ = w.Close()
	wg.Wait()
	return buf.String()
}

// execute runs the root command with args and returns its error and stdout.
// Flag variables are reset first since cobra keeps them between runs.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	jsonOutput = false
	saveSession = ""
	statusSession = ""
	runSession = ""
	runMetricsAddr = ""

	var err error
	out := captureStdout(t, func() {
		rootCmd.SetArgs(args)
		rootCmd.SetOut(io.Discard)
		rootCmd.SetErr(io.Discard)
		err = rootCmd.Execute()
	})
	return out, err
}

func loadSettings(t *testing.T, root string) settings.Settings {
	t.Helper()
	store, err := settings.NewFileStore(fsops.NewRealFS(), hash.NewSHA256Hasher(), filepath.Join(root, "settings.yaml"), zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	return store.Get()
}

func writeSettings(t *testing.T, root, content string) {
	t.Helper()
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "settings.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func saveState(t *testing.T, root, name string, paths []string) {
	t.Helper()
	store := state.NewFileStateStore(fsops.NewRealFS(), filepath.Join(root, "sessions"))
	st := state.NewProjectState(name)
	st.Paths = paths
	st.UpdatedAt = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	if err := store.SaveProject(st); err != nil {
		t.Fatal(err)
	}
}

func TestToggleCommands(t *testing.T) {
	root := setupTestEnv(t)

	if _, err := execute(t, "only-active", "on"); err != nil {
		t.Fatalf("only-active on: %v", err)
	}
	if _, err := execute(t, "reveal-active-file", "yes"); err != nil {
		t.Fatalf("reveal-active-file yes: %v", err)
	}

	got := loadSettings(t, root)
	if !got.OnlyActive || !got.RevealActiveFile {
		t.Errorf("settings = %+v, want both toggles on", got)
	}

	if _, err := execute(t, "only-active", "off"); err != nil {
		t.Fatalf("only-active off: %v", err)
	}
	if loadSettings(t, root).OnlyActive {
		t.Error("onlyActive still on")
	}

	t.Run("invalid value", func(t *testing.T) {
		if _, err := execute(t, "only-active", "maybe"); err == nil {
			t.Error("expected error for invalid value")
		}
	})

	t.Run("missing value", func(t *testing.T) {
		if _, err := execute(t, "only-active"); err == nil {
			t.Error("expected error without a value")
		}
	})
}

func TestClearCommands(t *testing.T) {
	root := setupTestEnv(t)
	writeSettings(t, root, "firstFolders: [/a, /b]\nlastFolders: [/z]\n")

	if _, err := execute(t, "clear-first-folders"); err != nil {
		t.Fatalf("clear-first-folders: %v", err)
	}
	got := loadSettings(t, root)
	if len(got.FirstFolders) != 0 {
		t.Errorf("firstFolders = %v, want empty", got.FirstFolders)
	}
	if !slices.Equal(got.LastFolders, []string{"/z"}) {
		t.Errorf("lastFolders = %v, want [/z]", got.LastFolders)
	}

	out, err := execute(t, "clear-last-folders", "--json")
	if err != nil {
		t.Fatalf("clear-last-folders: %v", err)
	}
	var printed settings.Settings
	if err := json.Unmarshal([]byte(out), &printed); err != nil {
		t.Fatalf("expected JSON settings, got %q: %v", out, err)
	}
	if len(printed.LastFolders) != 0 || len(loadSettings(t, root).LastFolders) != 0 {
		t.Error("lastFolders not cleared")
	}
}

func TestSaveCommands(t *testing.T) {
	root := setupTestEnv(t)

	t.Run("no session state", func(t *testing.T) {
		_, err := execute(t, "save-project-as-first-folders")
		if err == nil || !strings.Contains(err.Error(), "no project state") {
			t.Errorf("error = %v, want missing project state", err)
		}
	})

	saveState(t, root, "default", []string{"/src/app", "/src/lib"})
	saveState(t, root, "other", []string{"/elsewhere"})

	t.Run("default session", func(t *testing.T) {
		if _, err := execute(t, "save-project-as-first-folders"); err != nil {
			t.Fatalf("save-project-as-first-folders: %v", err)
		}
		got := loadSettings(t, root).FirstFolders
		if !slices.Equal(got, []string{"/src/app", "/src/lib"}) {
			t.Errorf("firstFolders = %v", got)
		}
	})

	t.Run("named session", func(t *testing.T) {
		if _, err := execute(t, "save-project-as-last-folders", "--session", "other"); err != nil {
			t.Fatalf("save-project-as-last-folders: %v", err)
		}
		got := loadSettings(t, root).LastFolders
		if !slices.Equal(got, []string{"/elsewhere"}) {
			t.Errorf("lastFolders = %v", got)
		}
	})
}

func TestStatusCommand_JSONOutput(t *testing.T) {
	root := setupTestEnv(t)
	first := t.TempDir()
	writeSettings(t, root, "onlyActive: true\nfirstFolders: ["+first+", /does/not/exist]\n")

	t.Run("without session state", func(t *testing.T) {
		out, err := execute(t, "status", "--json")
		if err != nil {
			t.Fatalf("status: %v", err)
		}

		var result statusResult
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", out, err)
		}
		if result.Session != "default" {
			t.Errorf("Session = %q, want default", result.Session)
		}
		if !result.Settings.OnlyActive {
			t.Error("Settings.OnlyActive = false, want true")
		}
		if !slices.Equal(result.FirstFolders, []string{first}) {
			t.Errorf("FirstFolders = %v, want [%s]", result.FirstFolders, first)
		}
		if !slices.Equal(result.DroppedFolders, []string{"/does/not/exist"}) {
			t.Errorf("DroppedFolders = %v", result.DroppedFolders)
		}
		if result.UpdatedAt != nil || len(result.ProjectPaths) != 0 {
			t.Errorf("unexpected project state: %+v", result)
		}
	})

	t.Run("with session state", func(t *testing.T) {
		saveState(t, root, "work", []string{first, "/src/app"})
		out, err := execute(t, "status", "--json", "--session", "work")
		if err != nil {
			t.Fatalf("status: %v", err)
		}

		var result statusResult
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", out, err)
		}
		if !slices.Equal(result.ProjectPaths, []string{first, "/src/app"}) {
			t.Errorf("ProjectPaths = %v", result.ProjectPaths)
		}
		if result.UpdatedAt == nil {
			t.Error("UpdatedAt missing")
		}
	})

	t.Run("text output", func(t *testing.T) {
		if _, err := execute(t, "status"); err != nil {
			t.Fatalf("status: %v", err)
		}
	})
}

func TestSessionsCommands(t *testing.T) {
	root := setupTestEnv(t)

	out, err := execute(t, "sessions", "--json")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("sessions = %q, want []", out)
	}

	saveState(t, root, "beta", []string{"/b"})
	saveState(t, root, "alpha", []string{"/a"})

	out, err = execute(t, "sessions", "--json")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	var states []state.ProjectState
	if err := json.Unmarshal([]byte(out), &states); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", out, err)
	}
	if len(states) != 2 || states[0].Session != "alpha" || states[1].Session != "beta" {
		t.Errorf("sessions = %+v", states)
	}

	if _, err := execute(t, "sessions", "rm", "alpha"); err != nil {
		t.Fatalf("sessions rm: %v", err)
	}
	if _, err := execute(t, "sessions", "rm", "alpha"); err == nil {
		t.Error("expected error removing a missing session")
	}
	if _, err := execute(t, "sessions"); err != nil {
		t.Fatalf("sessions: %v", err)
	}
}

func TestServeSession(t *testing.T) {
	setupTestEnv(t)
	rt, err := newRuntime()
	if err != nil {
		t.Fatalf("newRuntime() error = %v", err)
	}

	base := t.TempDir()
	dirA := filepath.Join(base, "a")
	dirB := filepath.Join(base, "b")
	for _, dir := range []string{dirA, dirB} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	input := strings.Join([]string{
		`{"type":"open","id":"1","path":"` + filepath.Join(dirA, "x.go") + `"}`,
		`{"type":"open","id":"2","path":"` + filepath.Join(dirB, "y.go") + `"}`,
		`{"type":"open","id":"3","kind":"basic"}`,
		`{"type":"activate","id":"2"}`,
		`{"type":"close","id":"9"}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := serveSession(context.Background(), rt, "e2e", "", strings.NewReader(input), &out); err != nil {
		t.Fatalf("serveSession() error = %v", err)
	}

	var last []string
	var errorsSeen int
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var msg session.Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			t.Fatalf("invalid output line %q: %v", line, err)
		}
		switch msg.Type {
		case session.EventProjectPaths:
			last = msg.Paths
		case session.EventError:
			errorsSeen++
		}
	}

	if !slices.Equal(last, []string{dirA, dirB}) {
		t.Errorf("last projectPaths = %v, want [%s %s]", last, dirA, dirB)
	}
	if errorsSeen != 1 {
		t.Errorf("error messages = %d, want 1", errorsSeen)
	}

	st, err := rt.states.LoadProject("e2e")
	if err != nil {
		t.Fatalf("LoadProject() error = %v", err)
	}
	if !slices.Equal(st.Paths, []string{dirA, dirB}) {
		t.Errorf("persisted paths = %v", st.Paths)
	}
}

// Activation in only-active mode commits the configured folders on the loop
// goroutine while serveSession is still starting up; run with -race.
func TestServeSession_OnlyActiveStartup(t *testing.T) {
	root := setupTestEnv(t)
	first := t.TempDir()
	writeSettings(t, root, "onlyActive: true\nfirstFolders: ["+first+"]\n")

	rt, err := newRuntime()
	if err != nil {
		t.Fatalf("newRuntime() error = %v", err)
	}

	var out bytes.Buffer
	if err := serveSession(context.Background(), rt, "startup", "", strings.NewReader(""), &out); err != nil {
		t.Fatalf("serveSession() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("output lines = %q, want exactly one update", lines)
	}
	var msg session.Message
	if err := json.Unmarshal([]byte(lines[0]), &msg); err != nil {
		t.Fatalf("invalid output line %q: %v", lines[0], err)
	}
	if msg.Type != session.EventProjectPaths || !slices.Equal(msg.Paths, []string{first}) {
		t.Errorf("message = %+v, want projectPaths [%s]", msg, first)
	}
}
