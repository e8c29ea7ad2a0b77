// Package export turns preprocessed notebooks into Markdown and LaTeX-built
// PDF documents.
package export

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/alnah/go-dfimage/internal/notebook"
	"github.com/alnah/go-dfimage/internal/preprocess"
)

// DefaultPriority is the display order for rich outputs in Markdown.
var DefaultPriority = []string{
	notebook.MimePNG,
	notebook.MimeHTML,
	notebook.MimePDF,
	notebook.MimeLaTeX,
	notebook.MimeSVG,
	notebook.MimeJPEG,
	notebook.MimeMarkdown,
	notebook.MimePlain,
}

// LaTeXPriority drops raw HTML, which pandoc cannot typeset.
var LaTeXPriority = slices.DeleteFunc(slices.Clone(DefaultPriority), func(m string) bool {
	return m == notebook.MimeHTML
})

// binaryTypes are base64-encoded in notebooks and extracted to files.
var binaryTypes = map[string]string{
	notebook.MimePNG:  "png",
	notebook.MimeJPEG: "jpg",
	notebook.MimePDF:  "pdf",
}

// ansiPattern matches terminal color and cursor sequences in tracebacks.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

const indent = "    "

// Output is an exported document and the files it references.
type Output struct {
	Body []byte
	// Outputs holds extracted output images by file name.
	Outputs map[string][]byte
}

// Markdown renders notebooks as Markdown.
type Markdown struct {
	// Priority orders MIME types when an output carries several.
	// Nil means DefaultPriority.
	Priority []string
}

// Export renders nb. Markdown sources rewritten by preprocessing are taken
// from res when present.
func (m *Markdown) Export(nb *notebook.Notebook, res *preprocess.Resources) (*Output, error) {
	priority := m.Priority
	if priority == nil {
		priority = DefaultPriority
	}
	lang := nb.Language()
	out := &Output{Outputs: map[string][]byte{}}

	var sb strings.Builder
	for i, c := range nb.Cells {
		switch c.CellType {
		case notebook.CellMarkdown:
			writeBlock(&sb, res.Source(i, c))
		case notebook.CellCode:
			if src := c.Source.String(); strings.TrimSpace(src) != "" {
				writeBlock(&sb, "```"+lang+"\n"+strings.TrimRight(src, "\n")+"\n```")
			}
			for j, o := range c.Outputs {
				text, err := renderOutput(i, j, o, priority, out.Outputs)
				if err != nil {
					return nil, err
				}
				writeBlock(&sb, text)
			}
		case notebook.CellRaw:
			if isMarkdownRaw(c) {
				writeBlock(&sb, c.Source.String())
			}
		}
	}

	out.Body = []byte(strings.TrimRight(sb.String(), "\n") + "\n")
	return out, nil
}

func writeBlock(sb *strings.Builder, text string) {
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return
	}
	sb.WriteString(text)
	sb.WriteString("\n\n")
}

func renderOutput(cell, index int, o *notebook.Output, priority []string, files map[string][]byte) (string, error) {
	switch o.OutputType {
	case notebook.OutputStream:
		return indentText(o.Text.String()), nil
	case notebook.OutputError:
		return indentText(ansiPattern.ReplaceAllString(strings.Join(o.Traceback, "\n"), "")), nil
	case notebook.OutputDisplayData, notebook.OutputExecuteResult:
	default:
		return "", nil
	}

	mime, ok := pick(o.Data, priority)
	if !ok {
		return "", nil
	}
	text := o.Data.Text(mime)

	if ext, binary := binaryTypes[mime]; binary {
		data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return "", fmt.Errorf("cell %d output %d: decoding %s: %w", cell, index, mime, err)
		}
		return imageRef(cell, index, ext, data, files), nil
	}

	switch mime {
	case notebook.MimeSVG:
		return imageRef(cell, index, "svg", []byte(text), files), nil
	case notebook.MimePlain:
		return indentText(text), nil
	default:
		// HTML, LaTeX and Markdown pass through as is.
		return text, nil
	}
}

func imageRef(cell, index int, ext string, data []byte, files map[string][]byte) string {
	name := fmt.Sprintf("output_%d_%d.%s", cell, index, ext)
	files[name] = data
	return fmt.Sprintf("![%s](%s)", ext, name)
}

func pick(data notebook.MimeBundle, priority []string) (string, bool) {
	for _, mime := range priority {
		if data.Has(mime) {
			return mime, true
		}
	}
	return "", false
}

func indentText(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// isMarkdownRaw reports whether a raw cell targets Markdown output.
func isMarkdownRaw(c *notebook.Cell) bool {
	format, _ := c.Metadata["raw_mimetype"].(string)
	if format == "" {
		format, _ = c.Metadata["format"].(string)
	}
	return format == "" || format == notebook.MimeMarkdown
}
