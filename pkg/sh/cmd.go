// Package sh runs external commands for envdoctor's checks.
package sh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/yaklabco/envdoctor/internal/env"
	"github.com/yaklabco/envdoctor/internal/log"
)

// Exec executes the command, piping its stdout and stderr to the given
// writers. cmd and args may include references to environment variables in
// $FOO format, in which case these will be expanded before the command is
// run. envMap entries override the process environment for the command.
//
// Ran reports if the command ran (rather than was not found or not
// executable). If err == nil, ran is always true.
func Exec(ctx context.Context, envMap map[string]string, stdin io.Reader, stdout, stderr io.Writer, cmd string, args ...string) (bool, error) {
	expand := func(varName string) string {
		if envMap != nil {
			if s2, ok := envMap[varName]; ok {
				return s2
			}
		}
		return os.Getenv(varName)
	}

	cmd = os.Expand(cmd, expand)

	for i := range args {
		args[i] = os.Expand(args[i], expand)
	}

	ran, code, err := run(ctx, envMap, stdin, stdout, stderr, cmd, args...)
	if err == nil {
		return true, nil
	}
	if ran {
		return ran, fmt.Errorf(`running "%s %s" failed with exit code %d`, cmd, strings.Join(args, " "), code)
	}
	return ran, fmt.Errorf(`failed to run "%s %s": %w`, cmd, strings.Join(args, " "), err)
}

func run(ctx context.Context, envMap map[string]string, stdin io.Reader, stdout, stderr io.Writer, cmd string, args ...string) (bool, int, error) {
	theCmd := exec.CommandContext(ctx, cmd, args...)
	// Overrides come after the process environment, so they win.
	theCmd.Env = append(os.Environ(), env.ToAssignments(envMap)...)
	theCmd.Stderr = stderr
	theCmd.Stdout = stdout
	theCmd.Stdin = stdin

	slog.Debug("exec", log.Cmd, cmd, log.Args, strings.Join(args, " "))
	err := theCmd.Run()

	return CmdRan(err), ExitStatus(err), err
}

// Output runs the command and returns the text from stdout with the final
// newline trimmed.
func Output(ctx context.Context, cmd string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	_, err := Exec(ctx, nil, nil, buf, os.Stderr, cmd, args...)
	return strings.TrimSuffix(buf.String(), "\n"), err
}

// CombinedOutput runs the command with stdout and stderr interleaved into a
// single string, preserving the command's own output verbatim. The returned
// text is valid even when err is non-nil.
func CombinedOutput(ctx context.Context, cmd string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	_, err := Exec(ctx, nil, nil, buf, buf, cmd, args...)
	return buf.String(), err
}

// LookPath resolves the first matching executable for name on the search
// path. The error, when non-nil, carries the OS's own "not found" text.
func LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("looking up %s: %w", name, err)
	}
	return path, nil
}

// CmdRan examines the error to determine if it was generated as a result of
// a command running via os/exec.Command. If the error is nil, or the
// command ran (even if it exited with a non-zero exit code), CmdRan reports
// true.
func CmdRan(err error) bool {
	if err == nil {
		return true
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.Exited()
	}
	return false
}

// ExitStatus returns the exit status of the error if it is an
// exec.ExitError. 0 if it is nil or 1 if it is a different error.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 1
}
