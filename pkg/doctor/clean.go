package doctor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Clean removes the artifacts envdoctor's checks leave behind: the smoke
// test file, the verification log, and the configured smoke database, if
// any. Missing files are skipped silently; removal errors are surfaced
// inline and do not stop the remaining removals.
func Clean(p Params, smokeDB string, out io.Writer) error {
	if out == nil {
		out = os.Stdout
	}

	wd, err := p.workDir()
	if err != nil {
		return err
	}

	artifacts := []string{
		filepath.Join(wd, p.TestFile),
		filepath.Join(wd, VerifyLogName),
	}
	if smokeDB != "" {
		artifacts = append(artifacts, smokeDB)
	}

	for _, path := range artifacts {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			fmt.Fprintf(out, "Error removing %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "Removed file: %s\n", path)
	}

	fmt.Fprintln(out, "Cleanup complete!")
	return nil
}
