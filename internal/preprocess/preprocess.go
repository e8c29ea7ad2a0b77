// Package preprocess transforms a notebook before export: it collects
// markdown images, optionally executes the notebook, swaps DataFrame HTML
// outputs for PNG images and normalizes output types.
//
// Stages mutate the notebook in place and record side products in Resources.
// Every stage is idempotent so the chain can run once per export target.
package preprocess

import (
	"context"
	"fmt"

	"github.com/alnah/go-dfimage/internal/notebook"
	"go.uber.org/zap"
)

// Resources carries data shared between stages and exporters.
type Resources struct {
	Path    string // notebook directory, base for relative references
	Name    string // output document name
	TempDir string // scratch directory of the current run

	// Images holds files referenced from markdown cells, keyed by the file
	// name the rewritten sources point at.
	Images map[string][]byte

	// MarkdownSources holds rewritten markdown cell sources by cell index.
	// The notebook's own sources are never changed.
	MarkdownSources map[int]string
}

// NewResources creates Resources with empty maps.
func NewResources(path, name, tempDir string) *Resources {
	return &Resources{
		Path:            path,
		Name:            name,
		TempDir:         tempDir,
		Images:          map[string][]byte{},
		MarkdownSources: map[int]string{},
	}
}

// Source returns the markdown source to export for cell i.
func (r *Resources) Source(i int, c *notebook.Cell) string {
	if r != nil {
		if s, ok := r.MarkdownSources[i]; ok {
			return s
		}
	}
	return c.Source.String()
}

// Preprocessor is one stage of the chain.
type Preprocessor interface {
	Name() string
	Preprocess(ctx context.Context, nb *notebook.Notebook, res *Resources) error
}

// Chain runs stages in order.
type Chain struct {
	stages []Preprocessor
	logger *zap.Logger
}

// NewChain creates a chain. A nil logger disables logging.
func NewChain(logger *zap.Logger, stages ...Preprocessor) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{stages: stages, logger: logger}
}

// Run applies every stage, stopping at the first error or cancellation.
func (c *Chain) Run(ctx context.Context, nb *notebook.Notebook, res *Resources) error {
	for _, s := range c.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.logger.Debug("preprocess", zap.String("stage", s.Name()), zap.Int("cells", len(nb.Cells)))
		if err := s.Preprocess(ctx, nb, res); err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}
	}
	return nil
}

// Stages returns the stage names in order.
func (c *Chain) Stages() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.Name()
	}
	return names
}

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
