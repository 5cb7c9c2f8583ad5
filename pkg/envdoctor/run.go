// Package envdoctor wires configuration, logging, and the individual
// checks into the tool's top-level run modes.
package envdoctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	cblog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/yaklabco/envdoctor/config"
	ilog "github.com/yaklabco/envdoctor/internal/log"
	"github.com/yaklabco/envdoctor/pkg/dbcheck"
	"github.com/yaklabco/envdoctor/pkg/doctor"
	"github.com/yaklabco/envdoctor/pkg/ui"
	"github.com/yaklabco/envdoctor/pkg/watch"
)

// RunParams contains the args for invoking a run of envdoctor.
type RunParams struct {
	BaseCtx context.Context // base context for the run, used for cancellation

	Stdout io.Writer // writer for the transcript; defaults to os.Stdout
	Stderr io.Writer // writer for warnings and logs; defaults to os.Stderr

	Debug   bool          // turn on debug messages
	Verbose bool          // show verbose output
	Dir     string        // directory the report describes
	Timeout time.Duration // overall timeout for the run

	// Pseudo-flags: at most one may be set.
	Config bool // manage configuration
	DB     bool // run the database smoke check
	Verify bool // write the verification log
	Clean  bool // remove check artifacts
	Watch  bool // re-run the report on directory changes

	Args []string // positional args for the active pseudo-flag
}

// Run is the entrypoint for running envdoctor. It exists external to the
// cobra command so it can be exercised directly from tests and other
// programs.
func Run(params RunParams) error {
	if params.Stdout == nil {
		params.Stdout = os.Stdout
	}
	if params.Stderr == nil {
		params.Stderr = os.Stderr
	}

	ctx := params.BaseCtx
	if ctx == nil {
		ctx = context.Background()
	}

	if howManyThingsToDo(params) > 1 {
		return errors.New("only one of --config, --db, --verify, --clean, or --watch may be specified")
	}

	// The config command dispatches before the config load: it has to work
	// even when the configuration itself is broken, since it is the mode a
	// user reaches for to debug exactly that.
	if params.Config {
		logger := ilog.SetupPrettyLogger(params.Stderr)
		setLogLevel(logger, params.Debug, params.Verbose)

		if code := RunConfigCommand(params.Stdout, params.Stderr, params.Args); code != 0 {
			return fmt.Errorf("config command failed with exit code %d", code)
		}
		return nil
	}

	cfg, err := config.Load(&config.LoadOptions{
		ProjectDir: params.Dir,
		Stderr:     params.Stderr,
	})
	if err != nil {
		return err
	}

	logger := ilog.SetupPrettyLogger(params.Stderr)
	setLogLevel(logger, params.Debug || cfg.Debug, params.Verbose || cfg.Verbose)

	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	reportParams := buildReportParams(params, cfg)

	switch {
	case params.DB:
		return runDB(ctx, params, cfg)

	case params.Verify:
		return doctor.Verify(reportParams, params.Stdout)

	case params.Clean:
		return doctor.Clean(reportParams, cfg.SmokeDB, params.Stdout)

	case params.Watch:
		return runWatch(ctx, reportParams, cfg)

	default:
		return doctor.Run(ctx, reportParams)
	}
}

func setLogLevel(logger *cblog.Logger, debug, verbose bool) {
	switch {
	case debug:
		logger.SetLevel(cblog.DebugLevel)
	case verbose:
		logger.SetLevel(cblog.InfoLevel)
	default:
		logger.SetLevel(cblog.WarnLevel)
	}
}

func howManyThingsToDo(params RunParams) int {
	count := 0
	for _, b := range []bool{params.Config, params.DB, params.Verify, params.Clean, params.Watch} {
		if b {
			count++
		}
	}
	return count
}

// buildReportParams merges configuration and flags into the report params.
func buildReportParams(params RunParams, cfg *config.Config) doctor.Params {
	var (
		styled bool
		width  int
	)
	if f, ok := params.Stdout.(*os.File); ok {
		styled = cfg.EnableColor && ui.IsTerminal(f)
		width = ui.DetectWidth(f)
	}

	return doctor.Params{
		Out:         params.Stdout,
		Dir:         params.Dir,
		Interpreter: cfg.Interpreter,
		VersionFlag: cfg.VersionFlag,
		MinVersion:  cfg.MinVersion,
		TestFile:    cfg.TestFile,
		Ignore:      cfg.Ignore,
		Styles:      ui.NewStyles(styled),
		Width:       width,
		RunID:       uuid.NewString(),
	}
}

// runDB runs the database smoke check, or inspects an existing database
// when a path is given (positionally or via config). Check failures are
// already printed inline; they do not change the exit code.
func runDB(ctx context.Context, params RunParams, cfg *config.Config) error {
	path := cfg.SmokeDB
	if len(params.Args) > 0 {
		path = params.Args[0]
	}

	var err error
	if path == "" {
		err = dbcheck.Smoke(ctx, params.Stdout)
	} else {
		err = dbcheck.Inspect(ctx, path, params.Stdout)
	}
	if err != nil {
		slog.Debug("database check failed", ilog.Error, err)
	}
	return nil
}

// runWatch runs the report once, then re-runs it whenever the directory
// changes. envdoctor's own artifacts are excluded from the watch so the
// smoke test cannot retrigger itself.
func runWatch(ctx context.Context, reportParams doctor.Params, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := reportParams.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}

	rerun := func(ctx context.Context) {
		if err := doctor.Run(ctx, reportParams); err != nil {
			slog.Debug("report run failed", ilog.Error, err)
		}
	}
	rerun(ctx)

	ignore := []string{cfg.TestFile, doctor.VerifyLogName}
	if cfg.SmokeDB != "" {
		ignore = append(ignore, cfg.SmokeDB)
	}

	return watch.Watch(ctx, watch.Options{
		Dir:      dir,
		Ignore:   ignore,
		OnChange: rerun,
	})
}
