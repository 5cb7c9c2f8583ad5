package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// smokeTestFileIO validates write+read permissions in the working
// directory: it creates (or overwrites) the test file, writes the fixed
// line, then reopens the file and prints its full contents. The file is
// deliberately left on disk after the run.
func smokeTestFileIO(_ context.Context, p *Params, out io.Writer) {
	header(p, out, "File I/O Smoke Test")

	wd, err := p.workDir()
	if err != nil {
		fmt.Fprintln(out, p.Styles.Fail(err.Error()))
		return
	}

	path := filepath.Join(wd, p.TestFile)

	if err := writeTestFile(path); err != nil {
		fmt.Fprintln(out, p.Styles.Fail(err.Error()))
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(out, p.Styles.Fail(fmt.Sprintf("reading %s: %v", path, err)))
		return
	}
	fmt.Fprint(out, string(content))
}

// writeTestFile writes the fixed content with the handle closed before the
// read-back opens it.
func writeTestFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	_, werr := f.WriteString(TestFileContent)
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("writing %s: %w", path, werr)
	}
	if cerr != nil {
		return fmt.Errorf("closing %s: %w", path, cerr)
	}
	return nil
}
