package dfimage

import (
	"fmt"
	"strings"
	"time"
)

// PDF engines.
const (
	EngineLaTeX   = "latex"
	EngineBrowser = "browser"
)

// Table conversion backends.
const (
	TableChrome     = "chrome"
	TableMatplotlib = "matplotlib"
)

// Defaults applied by DefaultOptions.
const (
	DefaultMaxRows          = 30
	DefaultMaxCols          = 10
	DefaultScreenshotWidth  = 1400
	DefaultScreenshotHeight = 900
	DefaultExecuteTimeout   = 600 * time.Second
)

// Options configures one conversion.
type Options struct {
	// To lists the output formats: "pdf", "md" or "markdown".
	To []string

	// Use picks the PDF engine: EngineLaTeX or EngineBrowser.
	Use string

	// LaTeXCommand overrides TeX engine discovery. Use "{filename}" where
	// the .tex file name goes. Only used with EngineLaTeX.
	LaTeXCommand []string

	// Style is the CSS for browser PDFs: a style name, a file path or CSS
	// content. Empty means the built-in notebook style.
	Style string

	// TableConversion picks the DataFrame image backend: TableChrome or
	// TableMatplotlib.
	TableConversion string

	// CenterDF centers DataFrame column labels and the table itself.
	CenterDF bool

	MaxRows int // DataFrame rows kept in images
	MaxCols int // DataFrame columns kept in images

	ScreenshotWidth  int // Chrome viewport width in pixels
	ScreenshotHeight int // Chrome viewport height in pixels

	// ChromePath is the Chrome binary. Empty means ROD_BROWSER_BIN or a
	// browser managed by rod.
	ChromePath string

	// Limit keeps only the first Limit cells. 0 keeps every cell.
	Limit int

	// DocumentName names the output files. Empty means the notebook name.
	DocumentName string

	// Execute runs the notebook with Jupyter before conversion.
	Execute        bool
	ExecuteTimeout time.Duration // per cell
	JupyterPath    string        // empty means "jupyter" on PATH

	// SaveNotebook writes the notebook with DataFrame images as
	// {name}_dataframe_image.ipynb.
	SaveNotebook bool

	// OutputDir receives the outputs. Empty means the notebook directory.
	// It must exist.
	OutputDir string
}

// DefaultOptions returns options producing a LaTeX PDF with Chrome-rendered
// tables.
func DefaultOptions() *Options {
	return &Options{
		To:               []string{FormatPDF},
		Use:              EngineLaTeX,
		TableConversion:  TableChrome,
		CenterDF:         true,
		MaxRows:          DefaultMaxRows,
		MaxCols:          DefaultMaxCols,
		ScreenshotWidth:  DefaultScreenshotWidth,
		ScreenshotHeight: DefaultScreenshotHeight,
		ExecuteTimeout:   DefaultExecuteTimeout,
	}
}

// Validate checks the options without touching the file system.
func (o *Options) Validate() error {
	if _, err := ParseTargets(o.To); err != nil {
		return err
	}

	switch strings.ToLower(o.Use) {
	case EngineLaTeX, EngineBrowser:
	default:
		return fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidEngine, o.Use, EngineLaTeX, EngineBrowser)
	}

	switch strings.ToLower(o.TableConversion) {
	case TableChrome, TableMatplotlib:
	default:
		return fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidTableConversion, o.TableConversion, TableChrome, TableMatplotlib)
	}

	for _, d := range []struct {
		name  string
		value int
	}{
		{"max rows", o.MaxRows},
		{"max cols", o.MaxCols},
		{"screenshot width", o.ScreenshotWidth},
		{"screenshot height", o.ScreenshotHeight},
	} {
		if d.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidDimension, d.name, d.value)
		}
	}

	if o.Limit < 0 {
		return fmt.Errorf("%w: %d (must be 0 or more)", ErrInvalidLimit, o.Limit)
	}
	if o.ExecuteTimeout < 0 {
		return fmt.Errorf("%w: execute timeout %s", ErrInvalidTimeout, o.ExecuteTimeout)
	}
	if strings.ContainsAny(o.DocumentName, `/\`) || o.DocumentName == "." || o.DocumentName == ".." {
		return fmt.Errorf("%w: %q (must be a file name without directories)", ErrInvalidDocumentName, o.DocumentName)
	}
	return nil
}

// needsLaTeX reports whether a TeX engine is required.
func (o *Options) needsLaTeX(targets []string) bool {
	return strings.EqualFold(o.Use, EngineLaTeX) && containsTarget(targets, FormatPDF)
}

