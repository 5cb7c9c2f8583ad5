package doctor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yaklabco/envdoctor/internal/env"
)

// VerifyLogName is the fixed name of the verification log.
const VerifyLogName = "execution_verification.log"

// Verify writes a verification log into the working directory: runtime
// information, the search-path-related environment variables, and the
// directory contents. It prints the log's absolute path to out.
func Verify(p Params, out io.Writer) error {
	if out == nil {
		out = os.Stdout
	}
	if p.RunID == "" {
		p.RunID = uuid.NewString()
	}

	wd, err := p.workDir()
	if err != nil {
		return err
	}

	logPath := filepath.Join(wd, VerifyLogName)
	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", logPath, err)
	}
	defer func() { _ = f.Close() }()

	if err := writeVerifyLog(f, &p, wd); err != nil {
		return err
	}

	absPath, err := filepath.Abs(logPath)
	if err != nil {
		absPath = logPath
	}
	fmt.Fprintf(out, "Verification log created at: %s\n", absPath)
	return nil
}

func writeVerifyLog(w io.Writer, p *Params, wd string) error {
	fmt.Fprintln(w, "Execution Verification Log")
	fmt.Fprintln(w, "=========================")
	fmt.Fprintf(w, "Timestamp: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Run ID: %s\n\n", p.RunID)

	fmt.Fprintln(w, "System Information:")
	fmt.Fprintf(w, "- Go Runtime: %s\n", runtime.Version())
	if exe, err := os.Executable(); err == nil {
		fmt.Fprintf(w, "- Executable: %s\n", exe)
	}
	fmt.Fprintf(w, "- Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "- Current Working Directory: %s\n\n", wd)

	fmt.Fprintln(w, "Environment Variables:")
	for _, entry := range env.FilterKeys(env.GetMap(), "PATH", interpreterName(p.Interpreter)) {
		fmt.Fprintf(w, "- %s = %s\n", entry.Key, entry.Value)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Directory Contents:")
	entries, err := listDir(wd, p.Ignore)
	if err != nil {
		return err
	}
	for _, name := range entries {
		fmt.Fprintf(w, "- %s\n", name)
	}
	return nil
}

// interpreterName reduces a configured interpreter to the bare name used
// for env-var matching, so absolute paths like /usr/local/bin/python3
// still match keys containing PYTHON3.
func interpreterName(interpreter string) string {
	base := filepath.Base(interpreter)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
