package envdoctor

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/envdoctor/config"
)

// ConfigSubcommand represents a config subcommand.
type ConfigSubcommand string

// Config subcommand constants.
const (
	ConfigInit ConfigSubcommand = "init"
	ConfigShow ConfigSubcommand = "show"
	ConfigPath ConfigSubcommand = "path"
)

// RunConfigCommand handles the `envdoctor --config` pseudo-flag.
// It returns the exit code.
func RunConfigCommand(stdout, stderr io.Writer, args []string) int {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() {
		configUsage(stdout)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	subArgs := fs.Args()
	if len(subArgs) == 0 {
		// No subcommand, show effective config
		return runConfigShow(stdout, stderr)
	}

	subcmd := ConfigSubcommand(strings.ToLower(subArgs[0]))
	switch subcmd {
	case ConfigInit:
		return runConfigInit(stdout, stderr)
	case ConfigShow:
		return runConfigShow(stdout, stderr)
	case ConfigPath:
		return runConfigPath(stdout)
	default:
		_, _ = fmt.Fprintf(stderr, "Error: unknown config subcommand %q\n", subArgs[0])
		configUsage(stderr)
		return 2
	}
}

// runConfigInit creates a default configuration file.
func runConfigInit(stdout, stderr io.Writer) int {
	path, err := config.WriteDefaultConfig()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "Created config file: %s\n", path)
	return 0
}

// runConfigShow displays the effective configuration.
func runConfigShow(stdout, stderr io.Writer) int {
	cfg, err := config.Load(nil)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	_, _ = fmt.Fprintln(stdout, "# Effective envdoctor Configuration")
	if cfg.ConfigFile() != "" {
		_, _ = fmt.Fprintf(stdout, "# Loaded from: %s\n", cfg.ConfigFile())
	} else {
		_, _ = fmt.Fprintln(stdout, "# (using defaults, no config file found)")
	}
	_, _ = fmt.Fprintln(stdout)
	_, _ = fmt.Fprintf(stdout, "interpreter: %s\n", cfg.Interpreter)
	_, _ = fmt.Fprintf(stdout, "version_flag: %s\n", cfg.VersionFlag)
	_, _ = fmt.Fprintf(stdout, "min_version: %q\n", cfg.MinVersion)
	_, _ = fmt.Fprintf(stdout, "test_file: %s\n", cfg.TestFile)
	_, _ = fmt.Fprintf(stdout, "smoke_db: %q\n", cfg.SmokeDB)
	_, _ = fmt.Fprintf(stdout, "ignore: %v\n", cfg.Ignore)
	_, _ = fmt.Fprintf(stdout, "verbose: %v\n", cfg.Verbose)
	_, _ = fmt.Fprintf(stdout, "debug: %v\n", cfg.Debug)
	_, _ = fmt.Fprintf(stdout, "enable_color: %v\n", cfg.EnableColor)

	return 0
}

// runConfigPath displays the configuration file paths.
func runConfigPath(stdout io.Writer) int {
	paths := config.ResolveXDGPaths()

	_, _ = fmt.Fprintln(stdout, "Configuration Paths:")
	_, _ = fmt.Fprintf(stdout, "  User config:    %s\n", paths.ConfigFilePath())
	_, _ = fmt.Fprintf(stdout, "  Config dir:     %s\n", paths.ConfigDir())

	cfg, err := config.Load(nil)
	if err == nil && cfg.ConfigFile() != "" {
		_, _ = fmt.Fprintf(stdout, "\nActive config file: %s\n", cfg.ConfigFile())
	} else {
		_, _ = fmt.Fprintln(stdout, "\nNo config file currently loaded (using defaults)")
	}

	return 0
}

// configUsage prints the config command usage.
func configUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage: envdoctor --config [subcommand]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Subcommands:")
	_, _ = fmt.Fprintln(w, "  show    Display the effective configuration (default)")
	_, _ = fmt.Fprintln(w, "  init    Create a default user configuration file")
	_, _ = fmt.Fprintln(w, "  path    Display configuration file paths")
}
