package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string
	Message string
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("config warning: %s: %s", w.Field, w.Message)
}

// ValidationResults holds the results of configuration validation.
type ValidationResults struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// HasErrors returns true if there are validation errors.
func (r ValidationResults) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are validation warnings.
func (r ValidationResults) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ErrorMessage returns a combined error message for all validation errors.
func (r ValidationResults) ErrorMessage() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// WriteWarnings writes all warnings to the given writer.
func (r ValidationResults) WriteWarnings(w io.Writer) {
	for _, warn := range r.Warnings {
		_, _ = fmt.Fprintln(w, warn.String())
	}
}

// Validate checks the configuration for errors and warnings.
// It returns errors for invalid values that would cause runtime issues,
// and warnings for issues that can be safely ignored.
func (c *Config) Validate() ValidationResults {
	var result ValidationResults

	if c.Interpreter == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "interpreter",
			Message: "must not be empty",
		})
	}

	if c.MinVersion != "" {
		if _, err := semver.NewVersion(c.MinVersion); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "min_version",
				Message: fmt.Sprintf("invalid version %q: %v", c.MinVersion, err),
			})
		}
	}

	// The smoke test file must stay inside the working directory.
	if strings.ContainsAny(c.TestFile, `/\`) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "test_file",
			Message: fmt.Sprintf("must be a bare file name, got %q", c.TestFile),
		})
	}
	if c.TestFile == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "test_file",
			Message: "must not be empty",
		})
	}

	for _, pattern := range c.Ignore {
		if _, err := glob.Compile(pattern); err != nil {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Field:   "ignore",
				Message: fmt.Sprintf("pattern %q does not compile and will be skipped: %v", pattern, err),
			})
		}
	}

	return result
}
