// Package notebook reads and writes Jupyter notebooks in nbformat v4.
//
// Only the parts of the format the converter touches are modeled explicitly.
// Everything else (cell and notebook metadata, attachment bundles, rich output
// data) is carried as loosely typed maps so a read/write round-trip keeps it.
package notebook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// Sentinel errors for notebook operations.
var (
	ErrReadNotebook       = errors.New("failed to read notebook")
	ErrParseNotebook      = errors.New("failed to parse notebook")
	ErrUnsupportedVersion = errors.New("unsupported notebook format version")
	ErrWriteNotebook      = errors.New("failed to write notebook")
)

// Cell types.
const (
	CellCode     = "code"
	CellMarkdown = "markdown"
	CellRaw      = "raw"
)

// Output types.
const (
	OutputStream        = "stream"
	OutputDisplayData   = "display_data"
	OutputExecuteResult = "execute_result"
	OutputError         = "error"
)

// Extension is the file extension of notebook documents.
const Extension = ".ipynb"

// minFormat is the oldest major nbformat version that can be read.
const minFormat = 4

// defaultLanguage is used when the notebook metadata names no kernel language.
const defaultLanguage = "python"

// Notebook is an in-memory nbformat v4 document.
type Notebook struct {
	Cells         []*Cell        `json:"cells"`
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

// Cell is a single notebook cell.
type Cell struct {
	ID             string                `json:"id,omitempty"`
	CellType       string                `json:"cell_type"`
	Source         MultilineString       `json:"source"`
	Metadata       map[string]any        `json:"metadata"`
	Attachments    map[string]MimeBundle `json:"attachments,omitempty"`
	ExecutionCount *int                  `json:"execution_count,omitempty"`
	Outputs        []*Output             `json:"outputs,omitempty"`
}

// Output is one output of a code cell.
type Output struct {
	OutputType     string          `json:"output_type"`
	Name           string          `json:"name,omitempty"`
	Text           MultilineString `json:"text,omitempty"`
	Data           MimeBundle      `json:"data,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	ExecutionCount *int            `json:"execution_count,omitempty"`
	EName          string          `json:"ename,omitempty"`
	EValue         string          `json:"evalue,omitempty"`
	Traceback      []string        `json:"traceback,omitempty"`
}

// Parse decodes a notebook document.
func Parse(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseNotebook, err)
	}
	if nb.NBFormat < minFormat {
		return nil, fmt.Errorf("%w: nbformat %d (need %d or later)", ErrUnsupportedVersion, nb.NBFormat, minFormat)
	}
	nb.normalize()
	return &nb, nil
}

// ReadFile loads the notebook at path. When limit is positive only the
// first limit cells are kept.
func ReadFile(path string, limit int) (*Notebook, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadNotebook, err)
	}
	nb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	nb.Truncate(limit)
	return nb, nil
}

// Truncate keeps the first limit cells. Non-positive limits keep everything.
func (nb *Notebook) Truncate(limit int) {
	if limit > 0 && limit < len(nb.Cells) {
		nb.Cells = nb.Cells[:limit]
	}
}

// Language returns the kernel language used to fence code cells.
func (nb *Notebook) Language() string {
	if info, ok := nb.Metadata["language_info"].(map[string]any); ok {
		if name, ok := info["name"].(string); ok && name != "" {
			return name
		}
	}
	if spec, ok := nb.Metadata["kernelspec"].(map[string]any); ok {
		if lang, ok := spec["language"].(string); ok && lang != "" {
			return lang
		}
	}
	return defaultLanguage
}

// Marshal encodes the notebook the way Jupyter writes it: one-space indent,
// no HTML escaping, trailing newline.
func Marshal(nb *Notebook) ([]byte, error) {
	nb.normalize()
	data, err := json.MarshalIndentWithOption(nb, "", " ", json.DisableHTMLEscape())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteNotebook, err)
	}
	return append(data, '\n'), nil
}

// Stem returns the notebook file name without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// normalize fills the maps nbformat requires to be present.
func (nb *Notebook) normalize() {
	if nb.Metadata == nil {
		nb.Metadata = map[string]any{}
	}
	for _, c := range nb.Cells {
		if c.Metadata == nil {
			c.Metadata = map[string]any{}
		}
		for _, o := range c.Outputs {
			if o.Metadata == nil && (o.OutputType == OutputDisplayData || o.OutputType == OutputExecuteResult) {
				o.Metadata = map[string]any{}
			}
		}
	}
}

// MarshalJSON writes only the keys valid for the cell type. Code cells always
// carry execution_count (possibly null) and outputs.
func (c Cell) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"cell_type": c.CellType,
		"metadata":  orEmpty(c.Metadata),
		"source":    c.Source,
	}
	if c.ID != "" {
		m["id"] = c.ID
	}
	switch c.CellType {
	case CellCode:
		m["execution_count"] = c.ExecutionCount
		outputs := c.Outputs
		if outputs == nil {
			outputs = []*Output{}
		}
		m["outputs"] = outputs
	default:
		if len(c.Attachments) > 0 {
			m["attachments"] = c.Attachments
		}
	}
	return json.MarshalWithOption(m, json.DisableHTMLEscape())
}

// MarshalJSON writes only the keys valid for the output type.
func (o Output) MarshalJSON() ([]byte, error) {
	m := map[string]any{"output_type": o.OutputType}
	switch o.OutputType {
	case OutputStream:
		m["name"] = o.Name
		m["text"] = o.Text
	case OutputDisplayData:
		m["data"] = orEmptyBundle(o.Data)
		m["metadata"] = orEmpty(o.Metadata)
	case OutputExecuteResult:
		m["data"] = orEmptyBundle(o.Data)
		m["metadata"] = orEmpty(o.Metadata)
		m["execution_count"] = o.ExecutionCount
	case OutputError:
		m["ename"] = o.EName
		m["evalue"] = o.EValue
		traceback := o.Traceback
		if traceback == nil {
			traceback = []string{}
		}
		m["traceback"] = traceback
	default:
		if o.Name != "" {
			m["name"] = o.Name
		}
		if o.Text != "" {
			m["text"] = o.Text
		}
		if o.Data != nil {
			m["data"] = o.Data
		}
	}
	return json.MarshalWithOption(m, json.DisableHTMLEscape())
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func orEmptyBundle(b MimeBundle) MimeBundle {
	if b == nil {
		return MimeBundle{}
	}
	return b
}
