package main

import (
	"io"
	"os"
	"time"

	dfimage "github.com/alnah/go-dfimage"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// NewPool builds the converter pool used by convert.
	NewPool func(size int, opts ...dfimage.Option) Pool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		NewPool: newPoolAdapter,
	}
}
