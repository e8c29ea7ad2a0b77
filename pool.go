package dfimage

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome, Jupyter and TeX child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("converter pool is closed")

// ConverterPool manages Converters for parallel conversion. Each converter
// has its own browser instance. Converters are created lazily on first
// acquire to avoid startup delay.
type ConverterPool struct {
	size       int
	opts       []Option
	converters []*Converter
	sem        chan *Converter
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewConverterPool creates a pool with capacity for n converters built with
// opts.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	if n < 1 {
		n = 1
	}
	return &ConverterPool{
		size:       n,
		opts:       opts,
		converters: make([]*Converter, 0, n),
		sem:        make(chan *Converter, n),
	}
}

// Acquire gets a converter from the pool, creating one if needed.
// Blocks if all converters are in use.
func (p *ConverterPool) Acquire() (*Converter, error) {
	select {
	case c, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return c, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		c, err := NewConverter(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.converters = append(p.converters, c)
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	c, ok := <-p.sem
	if !ok {
		return nil, ErrPoolClosed
	}
	return c, nil
}

// Release returns a converter to the pool.
func (p *ConverterPool) Release(c *Converter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.sem <- c
	}
}

// Close releases all browser resources.
// Returns an aggregated error if several converters fail to close.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	converters := p.converters
	p.mu.Unlock()

	var errs []error
	for _, c := range converters {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return min(max(n, MinPoolSize), MaxPoolSize)
}
