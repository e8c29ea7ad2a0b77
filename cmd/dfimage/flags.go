package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// outputFlags holds what is written and where.
type outputFlags struct {
	to           []string
	dir          string
	documentName string
	saveNotebook bool
}

// pdfFlags holds PDF engine flags.
type pdfFlags struct {
	use          string
	latexCommand []string
	style        string
	assetPath    string
	timeout      string
}

// tableFlags holds DataFrame image flags.
type tableFlags struct {
	conversion string
	center     bool
	maxRows    int
	maxCols    int
	width      int
	height     int
	chromePath string
}

// notebookFlags holds notebook handling flags.
type notebookFlags struct {
	limit          int
	execute        bool
	executeTimeout string
	jupyter        string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	workers  int
	output   outputFlags
	pdf      pdfFlags
	table    tableFlags
	notebook notebookFlags

	// changed records the flags set on the command line, so zero values
	// can be told apart from omitted flags.
	changed map[string]bool
}

func (f *convertFlags) isSet(name string) bool {
	return f.changed[name]
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringSliceVar(&f.to, "to", nil, "output formats: pdf, md (comma-separated)")
	fs.StringVarP(&f.dir, "output-dir", "o", "", "existing output directory")
	fs.StringVar(&f.documentName, "document-name", "", "base name of the output files")
	fs.BoolVar(&f.saveNotebook, "save-notebook", false, "also save the notebook with table images")
}

func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.StringVar(&f.use, "use", "", "PDF engine: latex, browser")
	fs.StringArrayVar(&f.latexCommand, "latex-command", nil, "TeX command argument, repeatable; {filename} is the .tex file")
	fs.StringVar(&f.style, "style", "", "browser PDF CSS: name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "browser page timeout (e.g. 30s, 2m)")
}

func addTableFlags(fs *flag.FlagSet, f *tableFlags) {
	fs.StringVar(&f.conversion, "table-conversion", "", "table images: chrome, matplotlib")
	fs.BoolVar(&f.center, "center-df", true, "center DataFrame tables")
	fs.IntVar(&f.maxRows, "max-rows", 0, "DataFrame rows kept in images (default 30)")
	fs.IntVar(&f.maxCols, "max-cols", 0, "DataFrame columns kept in images (default 10)")
	fs.IntVar(&f.width, "ss-width", 0, "Chrome viewport width (default 1400)")
	fs.IntVar(&f.height, "ss-height", 0, "Chrome viewport height (default 900)")
	fs.StringVar(&f.chromePath, "chrome-path", "", "Chrome binary")
}

func addNotebookFlags(fs *flag.FlagSet, f *notebookFlags) {
	fs.IntVar(&f.limit, "limit", 0, "convert only the first N cells (0 = all)")
	fs.BoolVar(&f.execute, "execute", false, "run the notebook before converting")
	fs.StringVar(&f.executeTimeout, "execute-timeout", "", "per-cell execution timeout (e.g. 10m)")
	fs.StringVar(&f.jupyter, "jupyter", "", "jupyter executable")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{changed: make(map[string]bool)}

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	addPDFFlags(fs, &f.pdf)
	addTableFlags(fs, &f.table)
	addNotebookFlags(fs, &f.notebook)

	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.changed[fl.Name] = true })

	return f, fs.Args(), nil
}
