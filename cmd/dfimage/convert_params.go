package main

import (
	"fmt"
	"time"

	dfimage "github.com/alnah/go-dfimage"
	"github.com/alnah/go-dfimage/internal/config"
)

// buildOptions layers the config (with environment applied) and then the
// command-line flags on top of the library defaults.
func buildOptions(flags *convertFlags, cfg *config.Config) (*dfimage.Options, error) {
	opts := dfimage.DefaultOptions()
	applyConfig(opts, cfg)

	execTimeout, err := cfg.ExecuteTimeoutDuration()
	if err != nil {
		return nil, err
	}
	if execTimeout > 0 {
		opts.ExecuteTimeout = execTimeout
	}

	if flags.isSet("to") {
		opts.To = flags.output.to
	}
	if flags.isSet("output-dir") {
		opts.OutputDir = flags.output.dir
	}
	if flags.isSet("document-name") {
		opts.DocumentName = flags.output.documentName
	}
	if flags.isSet("save-notebook") {
		opts.SaveNotebook = flags.output.saveNotebook
	}

	if flags.isSet("use") {
		opts.Use = flags.pdf.use
	}
	if flags.isSet("latex-command") {
		opts.LaTeXCommand = flags.pdf.latexCommand
	}
	if flags.isSet("style") {
		opts.Style = flags.pdf.style
	}

	if flags.isSet("table-conversion") {
		opts.TableConversion = flags.table.conversion
	}
	if flags.isSet("center-df") {
		opts.CenterDF = flags.table.center
	}
	if flags.isSet("max-rows") {
		opts.MaxRows = flags.table.maxRows
	}
	if flags.isSet("max-cols") {
		opts.MaxCols = flags.table.maxCols
	}
	if flags.isSet("ss-width") {
		opts.ScreenshotWidth = flags.table.width
	}
	if flags.isSet("ss-height") {
		opts.ScreenshotHeight = flags.table.height
	}
	if flags.isSet("chrome-path") {
		opts.ChromePath = flags.table.chromePath
	}

	if flags.isSet("limit") {
		opts.Limit = flags.notebook.limit
	}
	if flags.isSet("execute") {
		opts.Execute = flags.notebook.execute
	}
	if flags.isSet("jupyter") {
		opts.JupyterPath = flags.notebook.jupyter
	}
	if flags.isSet("execute-timeout") {
		d, err := parsePositiveDuration("--execute-timeout", flags.notebook.executeTimeout)
		if err != nil {
			return nil, err
		}
		opts.ExecuteTimeout = d
	}

	return opts, opts.Validate()
}

// applyConfig copies set config values onto opts.
func applyConfig(opts *dfimage.Options, cfg *config.Config) {
	if len(cfg.Output.Formats) > 0 {
		opts.To = cfg.Output.Formats
	}
	if cfg.Output.Dir != "" {
		opts.OutputDir = cfg.Output.Dir
	}
	if cfg.Output.DocumentName != "" {
		opts.DocumentName = cfg.Output.DocumentName
	}

	if cfg.PDF.Engine != "" {
		opts.Use = cfg.PDF.Engine
	}
	if len(cfg.PDF.LaTeXCommand) > 0 {
		opts.LaTeXCommand = cfg.PDF.LaTeXCommand
	}
	if cfg.PDF.Style != "" {
		opts.Style = cfg.PDF.Style
	}

	if cfg.Table.Backend != "" {
		opts.TableConversion = cfg.Table.Backend
	}
	if cfg.Table.Center != nil {
		opts.CenterDF = *cfg.Table.Center
	}
	if cfg.Table.MaxRows > 0 {
		opts.MaxRows = cfg.Table.MaxRows
	}
	if cfg.Table.MaxCols > 0 {
		opts.MaxCols = cfg.Table.MaxCols
	}
	if cfg.Table.Width > 0 {
		opts.ScreenshotWidth = cfg.Table.Width
	}
	if cfg.Table.Height > 0 {
		opts.ScreenshotHeight = cfg.Table.Height
	}
	if cfg.Table.ChromePath != "" {
		opts.ChromePath = cfg.Table.ChromePath
	}

	opts.Limit = cfg.Notebook.Limit
	opts.Execute = cfg.Notebook.Execute
	opts.SaveNotebook = cfg.Notebook.Save
	if cfg.Notebook.Jupyter != "" {
		opts.JupyterPath = cfg.Notebook.Jupyter
	}
}

// resolveTimeout returns the browser page timeout.
// Priority: --timeout flag > DFIMAGE_TIMEOUT > 0 (library default).
func resolveTimeout(flagValue string, env *envConfig) (time.Duration, error) {
	if flagValue != "" {
		return parsePositiveDuration("--timeout", flagValue)
	}
	return env.Timeout, nil
}

func parsePositiveDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", dfimage.ErrInvalidTimeout, name, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", dfimage.ErrInvalidTimeout, name, d)
	}
	return d, nil
}

// resolveWorkers returns the worker count: flag, then DFIMAGE_WORKERS.
func resolveWorkers(flags *convertFlags, env *envConfig) int {
	if flags.isSet("workers") {
		return flags.workers
	}
	return env.Workers
}
