// Package fileutil provides file and path helpers shared by the converter and
// the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrDirNotFound            = errors.New("directory does not exist")
	ErrNotDirectory           = errors.New("not a directory")
)

// tempPrefix names every temp file and directory the converter creates.
const tempPrefix = "dfimage-"

// WriteTempFile writes content to a new file in dir (the system temp dir when
// dir is empty). Returns the path and a cleanup function removing the file.
func WriteTempFile(dir, content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp(dir, tempPrefix+"*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}
	return path, cleanup, nil
}

// MakeTempDir creates a run directory under the system temp dir.
// The cleanup function removes it with its contents.
func MakeTempDir() (dir string, cleanup func(), err error) {
	dir, err = os.MkdirTemp("", tempPrefix+"*")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp directory: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

// ValidateExtension checks that the extension is safe for use in file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// CheckDir verifies that path exists and is a directory.
func CheckDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrDirNotFound, path)
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}
	return nil
}

// ReplaceDir removes path if it is a directory and creates it empty.
func ReplaceDir(path string, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}

// IsFilePath returns true if the string looks like a file path rather than a
// name, i.e. it contains a path separator.
//
// Examples:
//   - "notebook" -> false (name)
//   - "./custom.css" -> true
//   - "C:\styles\nb.css" -> true
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsCSS returns true if the string looks like inline CSS content.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}

// IsURL returns true if the string has a URL scheme the converter leaves
// alone (web links and data URIs).
func IsURL(s string) bool {
	lower := strings.ToLower(s)
	for _, prefix := range []string{"http://", "https://", "data:", "ftp://", "mailto:", "file://"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// IsLocalRelative reports whether ref is a relative path on the local
// filesystem.
func IsLocalRelative(ref string) bool {
	if ref == "" || IsURL(ref) || strings.HasPrefix(ref, "#") {
		return false
	}
	return !filepath.IsAbs(ref) && !strings.HasPrefix(ref, "/")
}
