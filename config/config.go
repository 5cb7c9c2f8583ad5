package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Config holds all envdoctor configuration values.
type Config struct {
	// Interpreter is the interpreter binary the report probes.
	Interpreter string `mapstructure:"interpreter"`

	// VersionFlag is passed to the interpreter to print its version.
	VersionFlag string `mapstructure:"version_flag"`

	// MinVersion, when set, is the minimum interpreter version the report
	// checks the probed version against.
	MinVersion string `mapstructure:"min_version"`

	// TestFile is the name of the file written by the I/O smoke test.
	TestFile string `mapstructure:"test_file"`

	// SmokeDB is the path of the database file inspected by --db.
	// Empty means the smoke check runs against an in-memory database.
	SmokeDB string `mapstructure:"smoke_db"`

	// Ignore holds glob patterns filtered out of the directory listing.
	Ignore []string `mapstructure:"ignore"`

	// Verbose enables verbose output.
	Verbose bool `mapstructure:"verbose"`

	// Debug enables debug messages.
	Debug bool `mapstructure:"debug"`

	// EnableColor enables colored output in terminal.
	EnableColor bool `mapstructure:"enable_color"`

	// configFile is the path to the config file that was loaded (if any).
	configFile string
}

// ConfigFile returns the path to the configuration file that was loaded,
// or an empty string if no file was loaded.
func (c *Config) ConfigFile() string {
	return c.configFile
}

// globalConfig holds the singleton global configuration.
//
//nolint:gochecknoglobals // singleton pattern requires package-level state
var (
	globalConfig       *Config
	globalConfigLoaded bool
	globalConfigMu     sync.RWMutex
)

// Global returns the global configuration singleton.
// It loads the configuration on first access.
func Global() *Config {
	globalConfigMu.RLock()
	if globalConfigLoaded {
		cfg := globalConfig
		globalConfigMu.RUnlock()
		return cfg
	}
	globalConfigMu.RUnlock()

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	// Double-check after acquiring write lock
	if globalConfigLoaded {
		return globalConfig
	}

	cfg, err := Load(nil)
	if err != nil {
		// Fall back to defaults on error
		cfg = DefaultConfig()
	}
	globalConfig = cfg
	globalConfigLoaded = true
	return globalConfig
}

// SetGlobal sets the global configuration.
// This is primarily useful for testing.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	globalConfigLoaded = true
}

// ResetGlobal resets the global configuration to be reloaded on next access.
// This is primarily useful for testing.
func ResetGlobal() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigLoaded = false
}

// Debug returns the global configuration's debug setting. It is used to
// seed flag defaults before flags are parsed.
func Debug() bool {
	return Global().Debug
}

// Verbose returns the global configuration's verbose setting. It is used to
// seed flag defaults before flags are parsed.
func Verbose() bool {
	return Global().Verbose
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectDir is the directory to search for project-level config.
	// If empty, the current working directory is used.
	ProjectDir string

	// Stderr is where warnings are written.
	// If nil, os.Stderr is used.
	Stderr io.Writer

	// SkipProjectConfig skips loading project-level configuration.
	SkipProjectConfig bool

	// SkipUserConfig skips loading user-level configuration.
	SkipUserConfig bool

	// SkipEnv skips reading environment variables.
	SkipEnv bool
}

// Load reads configuration from all sources and returns a Config struct.
// Configuration is loaded in the following order (later sources override earlier):
//  1. Defaults
//  2. User config file (~/.config/envdoctor/config.yaml)
//  3. Project config file (./envdoctor.yaml)
//  4. Environment variables (ENVDOCTOR_*)
//
// If opts is nil, default options are used.
func Load(opts *LoadOptions) (*Config, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}

	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	viperInstance := viper.New()

	setDefaults(viperInstance)
	viperInstance.SetConfigType("yaml")

	var configFileUsed string

	// Load user config from XDG path (~/.config/envdoctor/config.yaml)
	if !opts.SkipUserConfig {
		paths := ResolveXDGPaths()
		viperInstance.SetConfigName(ConfigFileName)
		viperInstance.AddConfigPath(paths.ConfigDir())

		if err := viperInstance.ReadInConfig(); err != nil {
			var configFileNotFoundError viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFoundError) {
				return nil, fmt.Errorf("failed to read user config file: %w", err)
			}
		} else {
			configFileUsed = viperInstance.ConfigFileUsed()
		}
	}

	// Load project config (./envdoctor.yaml) - merges with/overrides user config
	if !opts.SkipProjectConfig {
		projectDir := opts.ProjectDir
		if projectDir == "" {
			var err error
			projectDir, err = os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		projectConfigPath := filepath.Join(projectDir, ProjectConfigFileName+".yaml")
		if _, err := os.Stat(projectConfigPath); err == nil {
			viperInstance.SetConfigFile(projectConfigPath)
			if err := viperInstance.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read project config file: %w", err)
			}
			configFileUsed = projectConfigPath
		}
	}

	var cfg Config
	if err := viperInstance.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment variables take precedence over config files
	if !opts.SkipEnv {
		applyEnvironmentOverrides(&cfg)
	}

	cfg.configFile = configFileUsed

	result := cfg.Validate()
	if result.HasWarnings() {
		result.WriteWarnings(opts.Stderr)
	}
	if result.HasErrors() {
		return nil, errors.New(result.ErrorMessage())
	}

	return &cfg, nil
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func applyEnvironmentOverrides(cfg *Config) {
	parseBool := func(v string) bool {
		return v == "1" || v == "true" || v == "TRUE" || v == "True"
	}

	if v := os.Getenv("ENVDOCTOR_INTERPRETER"); v != "" {
		cfg.Interpreter = v
	}
	if v := os.Getenv("ENVDOCTOR_VERSION_FLAG"); v != "" {
		cfg.VersionFlag = v
	}
	if v := os.Getenv("ENVDOCTOR_MIN_VERSION"); v != "" {
		cfg.MinVersion = v
	}
	if v := os.Getenv("ENVDOCTOR_TEST_FILE"); v != "" {
		cfg.TestFile = v
	}
	if v := os.Getenv("ENVDOCTOR_SMOKE_DB"); v != "" {
		cfg.SmokeDB = v
	}
	if v := os.Getenv("ENVDOCTOR_VERBOSE"); v != "" {
		cfg.Verbose = parseBool(v)
	}
	if v := os.Getenv("ENVDOCTOR_DEBUG"); v != "" {
		cfg.Debug = parseBool(v)
	}
	if v := os.Getenv("ENVDOCTOR_ENABLE_COLOR"); v != "" {
		cfg.EnableColor = parseBool(v)
	}
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Interpreter: DefaultInterpreter,
		VersionFlag: DefaultVersionFlag,
		TestFile:    DefaultTestFile,
		Verbose:     DefaultVerbose,
		Debug:       DefaultDebug,
		EnableColor: DefaultEnableColor,
	}
}

// WriteDefaultConfig writes a default configuration file to the user's config directory.
func WriteDefaultConfig() (string, error) {
	paths := ResolveXDGPaths()
	configDir := paths.ConfigDir()

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := paths.ConfigFilePath()

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	content := defaultConfigYAML()
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}

// defaultConfigYAML returns the default configuration as YAML.
func defaultConfigYAML() string {
	return `# envdoctor Configuration

# Interpreter binary probed by the environment report.
interpreter: python3

# Flag passed to the interpreter to print its version.
version_flag: --version

# Minimum interpreter version (semver). Empty disables the check.
# min_version: "3.10"

# File written by the file I/O smoke test.
test_file: test_output.txt

# Database file inspected by --db. Empty runs an in-memory smoke check.
# smoke_db: app.db

# Glob patterns hidden from the directory listing.
# ignore:
#   - ".git"
#   - "*.pyc"

# Enable verbose output.
verbose: false

# Enable debug messages.
debug: false

# Enable colored output in terminal.
enable_color: false
`
}
