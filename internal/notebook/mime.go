package notebook

import (
	"strings"

	"github.com/goccy/go-json"
)

// Common MIME types found in output bundles.
const (
	MimePNG      = "image/png"
	MimeJPEG     = "image/jpeg"
	MimeSVG      = "image/svg+xml"
	MimeHTML     = "text/html"
	MimeLaTeX    = "text/latex"
	MimeMarkdown = "text/markdown"
	MimePlain    = "text/plain"
	MimePDF      = "application/pdf"
)

// MimeBundle maps MIME types to output payloads. Text payloads are strings or
// lists of strings; JSON payloads are decoded objects.
type MimeBundle map[string]any

// Has reports whether the bundle carries mime.
func (b MimeBundle) Has(mime string) bool {
	_, ok := b[mime]
	return ok
}

// Text returns the payload for mime as a single string. Structured payloads
// are re-encoded as JSON.
func (b MimeBundle) Text(mime string) string {
	switch v := b[mime].(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, "")
	case []any:
		var sb strings.Builder
		for _, line := range v {
			if s, ok := line.(string); ok {
				sb.WriteString(s)
			}
		}
		return sb.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
