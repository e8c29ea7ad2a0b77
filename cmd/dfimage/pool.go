package main

import (
	"context"
	"fmt"

	dfimage "github.com/alnah/go-dfimage"
)

// CLIConverter is the conversion surface the CLI needs.
type CLIConverter interface {
	Convert(ctx context.Context, path string, opts *dfimage.Options) (*dfimage.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*dfimage.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// poolAdapter exposes a dfimage.ConverterPool as a Pool.
type poolAdapter struct {
	pool *dfimage.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

func newPoolAdapter(size int, opts ...dfimage.Option) Pool {
	return &poolAdapter{pool: dfimage.NewConverterPool(size, opts...)}
}

func (a *poolAdapter) Acquire() (CLIConverter, error) {
	c, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Release panics when given a converter that did not come from the pool.
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*dfimage.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int { return a.pool.Size() }

func (a *poolAdapter) Close() error { return a.pool.Close() }
