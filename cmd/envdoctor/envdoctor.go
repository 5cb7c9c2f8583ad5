package envdoctor

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/yaklabco/envdoctor/cmd/envdoctor/version"
	"github.com/yaklabco/envdoctor/config"
	"github.com/yaklabco/envdoctor/pkg/envdoctor"

	"github.com/spf13/cobra"
)

const (
	shortDescription = "envdoctor prints a diagnostic transcript of the local environment: " +
		"interpreter version and location, search path, working directory, and a file I/O smoke test."
)

type rootCmdOptions struct {
	runFunc func(params envdoctor.RunParams) error
}

type Option func(*rootCmdOptions)

// This is intentionally designed to be unusable from outside this package,
// as it exists purely for testing purposes.
func withRunFunc(fn func(params envdoctor.RunParams) error) Option {
	return func(opts *rootCmdOptions) {
		opts.runFunc = fn
	}
}

func NewRootCmd(ctx context.Context, opts ...Option) *cobra.Command {
	rootCmdOpts := &rootCmdOptions{
		runFunc: envdoctor.Run,
	}
	for _, opt := range opts {
		opt(rootCmdOpts)
	}

	var runParams envdoctor.RunParams
	rootCmd := &cobra.Command{
		Use:   "envdoctor [flags]",
		Short: shortDescription,
		Example: `	# Print the environment report
	envdoctor

	# Report on another directory
	envdoctor -C /path/to/project

	# Database smoke check / inspect an existing database
	envdoctor --db
	envdoctor --db app.db

	# Write a verification log
	envdoctor --verify

	# Remove the artifacts previous runs left behind
	envdoctor --clean

	# Manage configuration
	envdoctor --config show`,
		Version: version.OverallVersionStringColorized(ctx),
		RunE: func(cmd *cobra.Command, args []string) error {
			runParams.Args = args
			runParams.Stdout = os.Stdout
			runParams.Stderr = os.Stderr
			runParams.BaseCtx = cmd.Context() //nolint:fatcontext // intentionally setting context from cmd

			return rootCmdOpts.runFunc(runParams)
		},
	}

	// Flags. Boolean defaults come from the loaded configuration so a
	// config file can turn them on without repeating the flag.
	rootCmd.PersistentFlags().BoolVarP(&runParams.Debug, "debug", "d", config.Debug(), "turn on debug messages")
	rootCmd.PersistentFlags().StringVarP(&runParams.Dir, "dir", "C", "", "directory the report describes")
	rootCmd.PersistentFlags().DurationVarP(&runParams.Timeout, "timeout", "t", 0, "timeout in duration parsable format (e.g. 5m30s)")
	rootCmd.PersistentFlags().BoolVarP(&runParams.Verbose, "verbose", "v", config.Verbose(), "show verbose output while running checks")

	// Flags that are actually commands ("pseudo-flags").
	rootCmd.PersistentFlags().BoolVar(&runParams.Clean, "clean", false, "remove the artifacts envdoctor's checks leave behind")
	rootCmd.PersistentFlags().BoolVar(&runParams.Config, "config", false, "manage envdoctor configuration")
	rootCmd.PersistentFlags().BoolVar(&runParams.DB, "db", false, "run the database smoke check (optionally against a database file)")
	rootCmd.PersistentFlags().BoolVar(&runParams.Verify, "verify", false, "write a verification log into the working directory")
	rootCmd.PersistentFlags().BoolVar(&runParams.Watch, "watch", false, "re-run the report when the directory changes")

	return rootCmd
}

// ExecuteWithFang runs the root Cobra command with Fang-specific options.
// It accepts a context and a root Cobra command as input parameters.
// Returns an error if the command execution fails.
func ExecuteWithFang(ctx context.Context, rootCmd *cobra.Command) error {
	//nolint:wrapcheck // top-level error from cobra, wrapping not needed
	return fang.Execute(
		ctx, rootCmd, fang.WithVersion(rootCmd.Version), fang.WithoutManpage())
}
