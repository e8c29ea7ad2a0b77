package dfimage

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-dfimage/internal/assets"
	"github.com/alnah/go-dfimage/internal/export"
	"github.com/alnah/go-dfimage/internal/fileutil"
	"github.com/alnah/go-dfimage/internal/notebook"
	"github.com/alnah/go-dfimage/internal/pipeline"
	"github.com/alnah/go-dfimage/internal/preprocess"
	"github.com/alnah/go-dfimage/internal/process"
	"github.com/alnah/go-dfimage/internal/table"
)

// defaultTimeout bounds each browser page load when the context has no
// deadline.
const defaultTimeout = 30 * time.Second

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout   time.Duration
	assetPath string
}

// WithTimeout sets the browser page timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("dfimage: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAssetPath sets a directory overriding the built-in styles and
// templates. Missing files fall back to the built-in ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// Converter converts notebooks. It owns a lazily started browser; call Close
// when done. A Converter runs one conversion at a time.
type Converter struct {
	cfg         converterConfig
	logger      *zap.Logger
	assetLoader assets.AssetLoader
	browser     *browser

	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
	pdfConverter  pdfConverter

	// Collaborators replaced in tests.
	tableRenderer preprocess.TableRenderer // nil = built from Options
	executor      preprocess.Executor      // nil = jupyter nbconvert
	runner        process.Runner
	lookPath      process.LookPathFunc
}

// NewConverter creates a Converter.
// Returns error if the asset path is invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:           converterConfig{timeout: defaultTimeout},
		logger:        zap.NewNop(),
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
		runner:        process.ExecRunner{},
		lookPath:      exec.LookPath,
	}

	for _, opt := range opts {
		opt(c)
	}

	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	c.assetLoader = resolver
	c.browser = newBrowser(c.cfg.timeout)
	c.pdfConverter = &rodPDF{browser: c.browser}
	return c, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.browser != nil {
		return c.browser.Close()
	}
	return nil
}

// Convert renders the notebook at path and writes the outputs to
// opts.OutputDir, or next to the notebook. Each target is written as soon as
// it is rendered, so a failing PDF still leaves the Markdown on disk; the
// partial Result is returned with the error. Result.Files lists what was
// written.
func (c *Converter) Convert(ctx context.Context, path string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	return c.render(ctx, path, opts, func(part string, res *Result) error {
		return writePart(res, part, outDir, c.logger)
	})
}

// Render converts the notebook at path in memory. Nothing is written outside
// a temporary directory removed before returning.
func (c *Converter) Render(ctx context.Context, path string, opts *Options) (*Result, error) {
	res, err := c.render(ctx, path, opts, nil)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// partSink receives each part of a Result once it is complete: a target
// format or partNotebook.
type partSink func(part string, res *Result) error

// render runs one conversion, handing finished parts to sink when set.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) render(ctx context.Context, path string, opts *Options, sink partSink) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	targets, _ := ParseTargets(opts.To)

	if opts.OutputDir != "" {
		if err := checkOutputDir(opts.OutputDir); err != nil {
			return nil, err
		}
	}

	var texCommand []string
	if opts.needsLaTeX(targets) {
		texCommand, err = export.FindLaTeXCommand(opts.LaTeXCommand, c.lookPath)
		if err != nil {
			return nil, err
		}
	}

	nb, err := notebook.ReadFile(path, opts.Limit)
	if err != nil {
		return nil, err
	}

	tempDir, cleanup, err := fileutil.MakeTempDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	r := &run{
		conv:       c,
		opts:       opts,
		nb:         nb,
		stem:       notebook.Stem(path),
		texCommand: texCommand,
	}
	docName := opts.DocumentName
	if docName == "" {
		docName = r.stem
	}
	r.res = preprocess.NewResources(filepath.Dir(path), docName, tempDir)

	if r.chain, err = c.buildChain(opts, tempDir); err != nil {
		return nil, err
	}

	result = &Result{
		DocumentName: docName,
		ImageDirName: r.stem + imageDirSuffix,
	}
	emit := func(part string) error {
		if sink == nil {
			return nil
		}
		return sink(part, result)
	}

	for _, target := range targets {
		if err := r.export(ctx, target, result); err != nil {
			return result, err
		}
		if err := emit(target); err != nil {
			return result, err
		}
	}

	if opts.SaveNotebook {
		data, err := notebook.Marshal(nb)
		if err != nil {
			return result, err
		}
		result.Notebook = data
		result.NotebookName = r.stem + NotebookSuffix + notebook.Extension
		if err := emit(partNotebook); err != nil {
			return result, err
		}
	}
	return result, nil
}

// Convert converts one notebook with a short-lived Converter.
func Convert(ctx context.Context, path string, opts *Options) (*Result, error) {
	c, err := NewConverter()
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()
	return c.Convert(ctx, path, opts)
}

func checkOutputDir(dir string) error {
	err := fileutil.CheckDir(dir)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fileutil.ErrDirNotFound):
		return fmt.Errorf("%w: %s", ErrOutputDirNotFound, dir)
	case errors.Is(err, fileutil.ErrNotDirectory):
		return fmt.Errorf("%w: %s", ErrOutputDirNotDirectory, dir)
	default:
		return err
	}
}

// buildChain assembles the preprocessing stages for one run.
func (c *Converter) buildChain(opts *Options, tempDir string) (*preprocess.Chain, error) {
	stages := []preprocess.Preprocessor{preprocess.MarkdownImages{Logger: c.logger}}

	if opts.Execute {
		executor := c.executor
		if executor == nil {
			executor = &preprocess.JupyterExecutor{
				Jupyter:  opts.JupyterPath,
				Timeout:  opts.ExecuteTimeout,
				Runner:   c.runner,
				LookPath: c.lookPath,
			}
		}
		stages = append(stages, &preprocess.Execute{Executor: executor, Logger: c.logger})
	}

	renderer, err := c.newTableRenderer(opts, tempDir)
	if err != nil {
		return nil, err
	}
	stages = append(stages,
		preprocess.DataFrameImages{Renderer: renderer, Logger: c.logger},
		preprocess.ChangeOutputType{},
	)
	chain := preprocess.NewChain(c.logger, stages...)
	c.logger.Debug("preprocessing chain", zap.Strings("stages", chain.Stages()))
	return chain, nil
}

func (c *Converter) newTableRenderer(opts *Options, tempDir string) (preprocess.TableRenderer, error) {
	if c.tableRenderer != nil {
		return c.tableRenderer, nil
	}
	if strings.EqualFold(opts.TableConversion, TableMatplotlib) {
		return &table.Painter{
			Center:   opts.CenterDF,
			MaxRows:  opts.MaxRows,
			MaxCols:  opts.MaxCols,
			MaxWidth: opts.ScreenshotWidth,
		}, nil
	}

	tmplText, err := c.assetLoader.LoadTemplate(assets.DataFrameTemplate)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(assets.DataFrameTemplate).Parse(tmplText)
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", assets.DataFrameTemplate, err)
	}
	style, err := c.assetLoader.LoadStyle(assets.DataFrameStyle)
	if err != nil {
		return nil, err
	}
	return &screenshotRenderer{
		browser:    c.browser,
		chromePath: opts.ChromePath,
		tmpl:       tmpl,
		style:      style,
		center:     opts.CenterDF,
		maxRows:    opts.MaxRows,
		maxCols:    opts.MaxCols,
		width:      opts.ScreenshotWidth,
		height:     opts.ScreenshotHeight,
		dir:        tempDir,
	}, nil
}

// resolveStyle resolves the style option (name, path, or CSS content) to CSS
// content. Empty means the built-in notebook style.
func (c *Converter) resolveStyle(input string) (string, error) {
	if input == "" {
		input = assets.NotebookStyle
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("loading style file %q: %w", input, err)
		}
		return string(content), nil
	}

	if fileutil.IsCSS(input) {
		return input, nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return "", fmt.Errorf("loading style %q: %w", input, err)
	}
	return css, nil
}

// run is the state of one conversion.
type run struct {
	conv       *Converter
	opts       *Options
	nb         *notebook.Notebook
	stem       string
	res        *preprocess.Resources
	chain      *preprocess.Chain
	texCommand []string
}

// export runs the chain and the exporter for one target.
func (r *run) export(ctx context.Context, target string, result *Result) error {
	if err := r.chain.Run(ctx, r.nb, r.res); err != nil {
		return fmt.Errorf("preprocessing %s: %w", target, err)
	}

	switch {
	case target == FormatMarkdown:
		return r.exportMarkdown(result)
	case strings.EqualFold(r.opts.Use, EngineLaTeX):
		return r.exportLaTeX(ctx, result)
	default:
		return r.exportBrowser(ctx, result)
	}
}

func (r *run) exportMarkdown(result *Result) error {
	out, err := (&export.Markdown{Priority: export.DefaultPriority}).Export(r.nb, r.res)
	if err != nil {
		return err
	}
	images := r.images(out)
	result.Markdown = export.RewriteAssetPaths(out.Body, slices.Collect(maps.Keys(images)), result.ImageDirName)
	result.MarkdownImages = images
	return nil
}

func (r *run) exportLaTeX(ctx context.Context, result *Result) error {
	out, err := (&export.Markdown{Priority: export.LaTeXPriority}).Export(r.nb, r.res)
	if err != nil {
		return err
	}
	compiler := &export.LaTeXCompiler{
		Command:  r.texCommand,
		Runner:   r.conv.runner,
		LookPath: r.conv.lookPath,
		Logger:   r.conv.logger,
	}
	pdf, err := compiler.Compile(ctx, out.Body, r.images(out), r.res.TempDir, r.res.Name)
	if err != nil {
		return err
	}
	result.PDF = pdf
	return nil
}

func (r *run) exportBrowser(ctx context.Context, result *Result) error {
	out, err := (&export.Markdown{Priority: export.DefaultPriority}).Export(r.nb, r.res)
	if err != nil {
		return err
	}
	for name, data := range r.images(out) {
		if err := os.WriteFile(filepath.Join(r.res.TempDir, name), data, 0o600); err != nil {
			return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
		}
	}

	htmlContent, err := r.conv.htmlConverter.ToHTML(ctx, r.res.Name, string(out.Body))
	if err != nil {
		return fmt.Errorf("converting to HTML: %w", err)
	}
	htmlContent, err = pipeline.RewriteRelativePaths(htmlContent, r.res.TempDir, r.res.Path)
	if err != nil {
		return fmt.Errorf("rewriting relative paths: %w", err)
	}
	css, err := r.conv.resolveStyle(r.opts.Style)
	if err != nil {
		return err
	}
	htmlContent = r.conv.cssInjector.InjectCSS(ctx, htmlContent, css)
	if err := ctx.Err(); err != nil {
		return err
	}

	pdf, err := r.conv.pdfConverter.ToPDF(ctx, r.opts.ChromePath, htmlContent, r.res.TempDir)
	if err != nil {
		return fmt.Errorf("converting to PDF: %w", err)
	}
	result.PDF = pdf
	return nil
}

// images merges markdown-cell images with the exporter's output images.
func (r *run) images(out *export.Output) map[string][]byte {
	all := make(map[string][]byte, len(r.res.Images)+len(out.Outputs))
	maps.Copy(all, r.res.Images)
	maps.Copy(all, out.Outputs)
	return all
}
