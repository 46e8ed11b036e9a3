package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/autoproject/internal/clock"
	"github.com/danieljhkim/autoproject/internal/engine"
	"github.com/danieljhkim/autoproject/internal/eventloop"
	"github.com/danieljhkim/autoproject/internal/gitx"
	"github.com/danieljhkim/autoproject/internal/metrics"
	"github.com/danieljhkim/autoproject/internal/session"
)

var (
	runSession     string
	runMetricsAddr string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a session bridge on stdin/stdout",
	Long: `Run a session: read editor events as JSON lines on stdin and write
project folder updates as JSON lines on stdout.

Inbound events:
  {"type":"open","id":"1","path":"/src/app/main.go","kind":"file"}
  {"type":"rename","id":"1","path":"/src/app/cmd.go"}
  {"type":"activate","id":"1"}
  {"type":"close","id":"1"}
  {"type":"paths","paths":["/src/app"]}
  {"type":"command","name":"save-project-as-first-folders"}

Outbound events:
  {"type":"projectPaths","paths":["/src/app"]}
  {"type":"reveal","path":"/src/app/main.go"}
  {"type":"error","message":"..."}

Settings file changes are applied while the session runs. The session ends
at end of input or on SIGINT/SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case sig := <-sigCh:
				rt.logger.Info().Str("signal", sig.String()).Msg("shutting down")
				cancel()
			case <-ctx.Done():
			}
		}()

		addr := runMetricsAddr
		if addr == "" {
			addr = rt.env.MetricsAddr
		}
		return serveSession(ctx, rt, rt.sessionName(runSession), addr, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// serveSession wires a bridge, an engine and the settings watcher onto one
// event loop and runs them until in is exhausted or ctx is done.
func serveSession(ctx context.Context, rt *runtime, name, metricsAddr string, in io.Reader, out io.Writer) error {
	logger := rt.logger.With().Str("session", name).Logger()
	m := metrics.New()
	loop := eventloop.New(logger)

	emitter := session.NewEmitter(out)
	project, err := session.NewProject(name, rt.states, &clock.RealClock{}, emitter, logger)
	if err != nil {
		return err
	}
	workspace := session.NewWorkspace()
	bridge := session.NewBridge(workspace, project, emitter, loop, m, logger)

	eng := engine.New(engine.Deps{
		Workspace: workspace,
		Project:   project,
		Settings:  rt.settings,
		FS:        rt.fs,
		Git:       gitx.NewRealGitRepo(),
		Scheduler: loop,
		Revealer:  bridge,
		Metrics:   m,
		Logger:    logger,
	})
	bridge.HandleCommands(eng.Run)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// From here on the project belongs to the loop goroutine.
	logger.Info().Strs("paths", project.Paths()).Msg("session started")

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(ctx)
	}()
	loop.Post(eng.Activate)

	go func() {
		err := rt.settings.Watch(ctx, func(reload func()) {
			loop.Post(func() {
				m.RecordSettingsReload()
				reload()
			})
		})
		if err != nil {
			logger.Warn().Err(err).Msg("settings changes will not be picked up")
		}
	}()

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		server := &http.Server{
			Addr:              metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info().Str("addr", metricsAddr).Msg("metrics server starting")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server error")
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	// Serve blocks on in, which a signal cannot interrupt.
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- bridge.Serve(ctx, in)
	}()

	var serveErr error
	select {
	case serveErr = <-serveDone:
	case <-ctx.Done():
	}

	loop.Shutdown()
	loopErr := <-loopDone
	eng.Deactivate()

	if serveErr != nil && !errors.Is(serveErr, eventloop.ErrClosed) {
		return serveErr
	}
	if loopErr != nil && !errors.Is(loopErr, eventloop.ErrClosed) && !errors.Is(loopErr, context.Canceled) {
		return fmt.Errorf("event loop stopped: %w", loopErr)
	}
	logger.Info().Msg("session ended")
	return nil
}

func init() {
	runCmd.Flags().StringVar(&runSession, "session", "", "Session name (default $AUTOPROJECT_SESSION)")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (default $AUTOPROJECT_METRICS_ADDR)")
}
