package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-dfimage/internal/process"
	"go.uber.org/zap"
)

// Sentinel errors for LaTeX PDF builds.
var (
	ErrLaTeXNotFound  = errors.New("no LaTeX installation found")
	ErrPandocNotFound = errors.New("pandoc not found")
	ErrLaTeXCompile   = errors.New("LaTeX compilation failed")
)

// FilenamePlaceholder is replaced by the .tex file name in TeX commands.
const FilenamePlaceholder = "{filename}"

// DefaultPandoc is the pandoc executable used when none is configured.
const DefaultPandoc = "pandoc"

// texPasses is how many times the TeX engine runs so cross references and
// page numbers settle.
const texPasses = 3

// texEngines are tried in order when no command is configured.
var texEngines = []string{"xelatex", "pdflatex", "texi2pdf"}

// FindLaTeXCommand returns the TeX command to build PDFs with. A non-empty
// user command is returned unchanged. Otherwise the first engine found on
// PATH is used with FilenamePlaceholder as its argument.
func FindLaTeXCommand(user []string, lookPath process.LookPathFunc) ([]string, error) {
	if len(user) > 0 {
		return user, nil
	}
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, tex := range texEngines {
		if _, err := lookPath(tex); err != nil {
			continue
		}
		cmd := []string{tex, FilenamePlaceholder}
		if tex == "xelatex" {
			cmd = append(cmd, "-interaction=batchmode")
		}
		return cmd, nil
	}
	return nil, fmt.Errorf("%w: tried %s", ErrLaTeXNotFound, strings.Join(texEngines, ", "))
}

// LaTeXCompiler builds PDFs from Markdown with pandoc and a TeX engine.
type LaTeXCompiler struct {
	Command  []string // TeX command, see FindLaTeXCommand
	Pandoc   string   // default DefaultPandoc
	Runner   process.Runner
	LookPath process.LookPathFunc
	Logger   *zap.Logger
}

// Compile writes images into dir, converts markdown to {name}.tex and runs
// the TeX command there. It returns the PDF bytes.
func (c *LaTeXCompiler) Compile(ctx context.Context, markdown []byte, images map[string][]byte, dir, name string) ([]byte, error) {
	if len(c.Command) == 0 {
		return nil, ErrLaTeXNotFound
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	runner := c.Runner
	if runner == nil {
		runner = process.ExecRunner{}
	}
	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	for file, data := range images {
		if err := os.WriteFile(filepath.Join(dir, file), data, 0o600); err != nil {
			return nil, fmt.Errorf("%w: writing %s: %v", ErrLaTeXCompile, file, err)
		}
	}

	pandoc := c.Pandoc
	if pandoc == "" {
		pandoc = DefaultPandoc
	}
	pandocBin, err := lookPath(pandoc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPandocNotFound, pandoc, err)
	}

	texFile := name + ".tex"
	if _, _, err := runner.Run(ctx, dir, markdown, pandocBin,
		"-f", "markdown-fancy_lists", "-t", "latex", "--standalone", "-o", texFile); err != nil {
		return nil, compileErr(ctx, "pandoc", err)
	}

	args := make([]string, 0, len(c.Command)-1)
	for _, a := range c.Command[1:] {
		args = append(args, strings.ReplaceAll(a, FilenamePlaceholder, texFile))
	}
	for pass := 1; pass <= texPasses; pass++ {
		logger.Debug("tex pass", zap.String("command", c.Command[0]), zap.Int("pass", pass))
		if _, _, err := runner.Run(ctx, dir, nil, c.Command[0], args...); err != nil {
			return nil, compileErr(ctx, c.Command[0], err)
		}
	}

	pdf, err := os.ReadFile(filepath.Join(dir, name+".pdf")) // #nosec G304 -- file produced in our temp dir
	if err != nil {
		return nil, fmt.Errorf("%w: %s produced no PDF: %v", ErrLaTeXCompile, c.Command[0], err)
	}
	return pdf, nil
}

func compileErr(ctx context.Context, step string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %s: %w", ErrLaTeXCompile, step, err)
}
