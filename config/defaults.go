package config

import "github.com/spf13/viper"

// Default configuration values.
const (
	// DefaultInterpreter is the interpreter binary probed by the report.
	DefaultInterpreter = "python3"

	// DefaultVersionFlag is the flag passed to the interpreter to print its version.
	DefaultVersionFlag = "--version"

	// DefaultTestFile is the file written by the file I/O smoke test.
	DefaultTestFile = "test_output.txt"

	// DefaultVerbose is the default verbose setting.
	DefaultVerbose = false

	// DefaultDebug is the default debug setting.
	DefaultDebug = false

	// DefaultEnableColor is the default color output setting.
	DefaultEnableColor = false
)

// setDefaults configures default values in the viper instance.
func setDefaults(viperInstance *viper.Viper) {
	viperInstance.SetDefault("interpreter", DefaultInterpreter)
	viperInstance.SetDefault("version_flag", DefaultVersionFlag)
	viperInstance.SetDefault("min_version", "")
	viperInstance.SetDefault("test_file", DefaultTestFile)
	viperInstance.SetDefault("smoke_db", "")
	viperInstance.SetDefault("ignore", []string{})
	viperInstance.SetDefault("verbose", DefaultVerbose)
	viperInstance.SetDefault("debug", DefaultDebug)
	viperInstance.SetDefault("enable_color", DefaultEnableColor)
}
