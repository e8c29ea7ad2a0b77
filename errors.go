package dfimage

import (
	"errors"

	"github.com/alnah/go-dfimage/internal/assets"
	"github.com/alnah/go-dfimage/internal/export"
	"github.com/alnah/go-dfimage/internal/notebook"
	"github.com/alnah/go-dfimage/internal/preprocess"
	"github.com/alnah/go-dfimage/internal/table"
)

// Sentinel errors for option validation. They are returned before any file
// is read.
var (
	ErrInvalidTarget          = errors.New("invalid target format")
	ErrInvalidEngine          = errors.New("invalid PDF engine")
	ErrInvalidTableConversion = errors.New("invalid table conversion backend")
	ErrInvalidDimension       = errors.New("invalid dimension")
	ErrInvalidLimit           = errors.New("invalid cell limit")
	ErrInvalidDocumentName    = errors.New("invalid document name")
	ErrInvalidTimeout         = errors.New("invalid timeout")
	ErrOutputDirNotFound      = errors.New("output directory does not exist")
	ErrOutputDirNotDirectory  = errors.New("output path is not a directory")
	ErrInvalidAssetPath       = errors.New("invalid asset path")
)

// Sentinel errors for conversion.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrScreenshot     = errors.New("table screenshot failed")
	ErrWriteOutput    = errors.New("failed to write output")
)

// Errors raised by internal stages, re-exported for errors.Is checks.
var (
	ErrReadNotebook       = notebook.ErrReadNotebook
	ErrParseNotebook      = notebook.ErrParseNotebook
	ErrUnsupportedVersion = notebook.ErrUnsupportedVersion
	ErrLaTeXNotFound      = export.ErrLaTeXNotFound
	ErrPandocNotFound     = export.ErrPandocNotFound
	ErrLaTeXCompile       = export.ErrLaTeXCompile
	ErrJupyterNotFound    = preprocess.ErrJupyterNotFound
	ErrExecution          = preprocess.ErrExecution
	ErrNoTable            = table.ErrNoTable
	ErrStyleNotFound      = assets.ErrStyleNotFound
)
