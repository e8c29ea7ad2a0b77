package main

import (
	"context"
	"errors"
	"os"

	dfimage "github.com/alnah/go-dfimage"
	"github.com/alnah/go-dfimage/internal/assets"
	"github.com/alnah/go-dfimage/internal/config"
	"github.com/alnah/go-dfimage/internal/hints"
)

// Exit codes for the dfimage CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful conversion
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, validation or notebook
	ExitIO        = 3 // File not found, permission denied, write failure
	ExitBrowser   = 4 // Browser/Chrome errors
	ExitToolchain = 5 // LaTeX, pandoc or jupyter missing
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Toolchain errors (exit 5)
	if errors.Is(err, dfimage.ErrLaTeXNotFound) ||
		errors.Is(err, dfimage.ErrPandocNotFound) ||
		errors.Is(err, dfimage.ErrJupyterNotFound) {
		return ExitToolchain
	}

	// Browser errors (exit 4)
	if errors.Is(err, dfimage.ErrBrowserConnect) ||
		errors.Is(err, dfimage.ErrPageCreate) ||
		errors.Is(err, dfimage.ErrPageLoad) ||
		errors.Is(err, dfimage.ErrPDFGeneration) ||
		errors.Is(err, dfimage.ErrScreenshot) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, dfimage.ErrReadNotebook) ||
		errors.Is(err, dfimage.ErrWriteOutput) ||
		errors.Is(err, dfimage.ErrOutputDirNotFound) ||
		errors.Is(err, dfimage.ErrOutputDirNotDirectory) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoNotebooks) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dfimage.ErrInvalidTarget) ||
		errors.Is(err, dfimage.ErrInvalidEngine) ||
		errors.Is(err, dfimage.ErrInvalidTableConversion) ||
		errors.Is(err, dfimage.ErrInvalidDimension) ||
		errors.Is(err, dfimage.ErrInvalidLimit) ||
		errors.Is(err, dfimage.ErrInvalidDocumentName) ||
		errors.Is(err, dfimage.ErrInvalidTimeout) ||
		errors.Is(err, dfimage.ErrInvalidAssetPath) ||
		errors.Is(err, dfimage.ErrStyleNotFound) ||
		errors.Is(err, dfimage.ErrParseNotebook) ||
		errors.Is(err, dfimage.ErrUnsupportedVersion) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrDocumentNameMulti) ||
		errors.Is(err, ErrUnknownCommand) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for well-known failures, or "".
func hintFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, dfimage.ErrLaTeXNotFound):
		return hints.ForLaTeXNotFound()
	case errors.Is(err, dfimage.ErrPandocNotFound):
		return hints.ForPandocNotFound()
	case errors.Is(err, dfimage.ErrJupyterNotFound):
		return hints.ForJupyterNotFound()
	case errors.Is(err, dfimage.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, dfimage.ErrOutputDirNotFound), errors.Is(err, dfimage.ErrOutputDirNotDirectory):
		return hints.ForOutputDirectory()
	case errors.Is(err, dfimage.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	}
	return ""
}
