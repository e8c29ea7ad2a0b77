package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	dfimage "github.com/alnah/go-dfimage"
)

// Sentinel errors for input discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoNotebooks        = errors.New("no notebooks found")
	ErrInvalidExtension   = errors.New("file must have .ipynb extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrDocumentNameMulti  = errors.New("--document-name needs a single notebook")
)

const (
	notebookExt    = ".ipynb"
	checkpointsDir = ".ipynb_checkpoints"
)

// discoverNotebooks expands the inputs into notebook paths. Directories are
// walked recursively, skipping Jupyter checkpoints and previously saved
// converted notebooks. Duplicates are dropped.
func discoverNotebooks(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := validateNotebookExtension(input); err != nil {
				return nil, err
			}
			add(input)
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() {
				if d.Name() == checkpointsDir {
					return filepath.SkipDir
				}
				return nil
			}
			if isConvertibleNotebook(d.Name()) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoNotebooks, strings.Join(inputs, ", "))
	}
	return files, nil
}

// isConvertibleNotebook reports whether a file found in a directory walk
// should be converted.
func isConvertibleNotebook(name string) bool {
	if !strings.EqualFold(filepath.Ext(name), notebookExt) {
		return false
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return !strings.HasSuffix(stem, dfimage.NotebookSuffix)
}

// validateNotebookExtension checks that the file has a .ipynb extension.
func validateNotebookExtension(path string) error {
	ext := filepath.Ext(path)
	if !strings.EqualFold(ext, notebookExt) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > dfimage.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, dfimage.MaxPoolSize)
	}
	return nil
}
