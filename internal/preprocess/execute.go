package preprocess

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/alnah/go-dfimage/internal/notebook"
	"github.com/alnah/go-dfimage/internal/process"
	"go.uber.org/zap"
)

// Sentinel errors for notebook execution.
var (
	ErrJupyterNotFound = errors.New("jupyter not found")
	ErrExecution       = errors.New("notebook execution failed")
)

// DefaultJupyter is the executable used when none is configured.
const DefaultJupyter = "jupyter"

// Executor runs every code cell of a notebook and returns the executed copy.
type Executor interface {
	Execute(ctx context.Context, nb *notebook.Notebook, dir string) (*notebook.Notebook, error)
}

// JupyterExecutor executes notebooks with `jupyter nbconvert`. Cell errors are
// kept in the outputs instead of failing the run.
type JupyterExecutor struct {
	Jupyter  string        // executable name or path, default DefaultJupyter
	Timeout  time.Duration // per-cell timeout, 0 = nbconvert default
	Runner   process.Runner
	LookPath process.LookPathFunc
}

// Execute implements Executor.
func (e *JupyterExecutor) Execute(ctx context.Context, nb *notebook.Notebook, dir string) (*notebook.Notebook, error) {
	jupyter := e.Jupyter
	if jupyter == "" {
		jupyter = DefaultJupyter
	}
	lookPath := e.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	bin, err := lookPath(jupyter)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrJupyterNotFound, jupyter, err)
	}

	input, err := notebook.Marshal(nb)
	if err != nil {
		return nil, err
	}

	args := []string{"nbconvert", "--to", "notebook", "--execute", "--allow-errors", "--stdin", "--stdout"}
	if e.Timeout > 0 {
		args = append(args, "--ExecutePreprocessor.timeout="+strconv.Itoa(int(e.Timeout.Seconds())))
	}

	runner := e.Runner
	if runner == nil {
		runner = process.ExecRunner{}
	}
	stdout, _, err := runner.Run(ctx, dir, input, bin, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrExecution, err)
	}

	executed, err := notebook.Parse(stdout)
	if err != nil {
		return nil, fmt.Errorf("%w: reading nbconvert output: %w", ErrExecution, err)
	}
	return executed, nil
}

// Execute is the stage that runs the notebook. It executes on the first pass
// only; later passes of the chain see the already executed cells.
type Execute struct {
	Executor Executor
	Logger   *zap.Logger

	done bool
}

// Name implements Preprocessor.
func (*Execute) Name() string { return "execute" }

// Preprocess implements Preprocessor.
func (s *Execute) Preprocess(ctx context.Context, nb *notebook.Notebook, res *Resources) error {
	if s.done {
		return nil
	}
	logger := nopIfNil(s.Logger)
	start := time.Now()

	executed, err := s.Executor.Execute(ctx, nb, res.Path)
	if err != nil {
		return err
	}
	*nb = *executed
	s.done = true

	logger.Info("notebook executed", zap.Int("cells", len(nb.Cells)), zap.Duration("elapsed", time.Since(start)))
	return nil
}

var (
	_ Executor     = (*JupyterExecutor)(nil)
	_ Preprocessor = (*Execute)(nil)
)
