package log

import (
	"io"
	"log/slog"

	cblog "github.com/charmbracelet/log"
)

// SetupPrettyLogger installs a charmbracelet pretty handler as the slog
// default and returns it so callers can adjust the level.
func SetupPrettyLogger(writerForLogger io.Writer) *cblog.Logger {
	logHandler := cblog.NewWithOptions(
		writerForLogger,
		cblog.Options{
			// Default level. Callers can use SetLevel on the returned handler to change.
			Level:           cblog.InfoLevel,
			ReportTimestamp: true,
			ReportCaller:    true,
		},
	)
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	return logHandler
}
