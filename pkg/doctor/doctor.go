// Package doctor produces envdoctor's diagnostic transcript: a fixed,
// sequential report on the interpreter, search path, working directory,
// and filesystem of the machine it runs on.
package doctor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/yaklabco/envdoctor/internal/log"
	"github.com/yaklabco/envdoctor/pkg/ui"
)

const (
	// BannerTitle is the opening banner title.
	BannerTitle = "Environment Doctor"

	// CompletionMessage is the fixed closing message.
	CompletionMessage = "Environment check completed."

	// ClosingLine is the final line of every transcript.
	ClosingLine = "Script completed."

	// TestFileContent is the fixed line written by the I/O smoke test.
	TestFileContent = "This is a test file.\n"

	bannerWidth = 50
)

// Params configures a single report run.
type Params struct {
	// Out receives the transcript. Defaults to os.Stdout.
	Out io.Writer

	// Dir is the working directory the report describes. Empty means the
	// process's current working directory.
	Dir string

	// Interpreter is the binary probed for version and location.
	Interpreter string

	// VersionFlag is passed to the interpreter to print its version.
	VersionFlag string

	// MinVersion, when set, is a semver floor the probed version is
	// compared against.
	MinVersion string

	// TestFile is the name of the smoke-test file, created inside Dir.
	TestFile string

	// Ignore holds glob patterns hidden from the directory listing.
	Ignore []string

	// Styles renders headers and markers. The zero value is plain text.
	Styles ui.Styles

	// Width soft-wraps the search-path value when positive.
	Width int

	// RunID identifies this run in logs and the verification log.
	// Assigned automatically when empty.
	RunID string
}

type section struct {
	header string
	run    func(ctx context.Context, p *Params, out io.Writer)
}

// Run writes the complete eight-section transcript to p.Out. Sub-step
// failures are surfaced inline in the transcript and never short-circuit
// the run; Run itself only fails when the directory override in p.Dir is
// unusable.
func Run(ctx context.Context, p Params) error {
	if p.Out == nil {
		p.Out = os.Stdout
	}
	if p.RunID == "" {
		p.RunID = uuid.NewString()
	}

	if p.Dir != "" {
		info, err := os.Stat(p.Dir)
		if err != nil {
			return fmt.Errorf("unusable directory %s: %w", p.Dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", p.Dir)
		}
	}

	slog.Debug("starting environment report",
		log.RunID, p.RunID,
		log.Dir, p.Dir,
		log.Cmd, p.Interpreter,
	)

	sections := []section{
		{BannerTitle, openingBanner},
		{"Interpreter Version", reportInterpreterVersion},
		{"Interpreter Location", reportInterpreterLocation},
		{"Search Path", reportSearchPath},
		{"Working Directory", reportWorkingDirectory},
		{"Directory Contents", reportDirectoryContents},
		{"File I/O Smoke Test", smokeTestFileIO},
		{CompletionMessage, closingBanner},
	}

	for i, s := range sections {
		slog.Debug("running section", log.RunID, p.RunID, log.Section, s.header)
		s.run(ctx, &p, p.Out)
		if i < len(sections)-1 {
			fmt.Fprintln(p.Out)
		}
	}

	return nil
}

// workDir resolves the directory the report describes.
func (p *Params) workDir() (string, error) {
	if p.Dir != "" {
		return p.Dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return wd, nil
}

func separatorLine() string {
	return strings.Repeat("=", bannerWidth)
}

// centered pads text to the banner width, matching the original report's
// header format.
func centered(text string) string {
	if len(text) >= bannerWidth {
		return text
	}
	left := (bannerWidth - len(text)) / 2
	return strings.Repeat(" ", left) + text
}

func openingBanner(_ context.Context, p *Params, out io.Writer) {
	fmt.Fprintln(out, separatorLine())
	fmt.Fprintln(out, p.Styles.Title(centered(BannerTitle)))
	fmt.Fprintln(out, separatorLine())
}

func closingBanner(_ context.Context, p *Params, out io.Writer) {
	fmt.Fprintln(out, separatorLine())
	fmt.Fprintln(out, p.Styles.Title(CompletionMessage))
	fmt.Fprintln(out, ClosingLine)
}

// header writes a labeled section header line.
func header(p *Params, out io.Writer, label string) {
	fmt.Fprintln(out, p.Styles.Header(label+":"))
}
