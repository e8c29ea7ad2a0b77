package notebook

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// MultilineString is text stored either as one string or as a list of lines.
// It always encodes as a list of lines that keep their trailing newlines.
type MultilineString string

// UnmarshalJSON accepts a string, a list of strings or null.
func (s *MultilineString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case data[0] == '[':
		var lines []string
		if err := json.Unmarshal(data, &lines); err != nil {
			return fmt.Errorf("multiline string: %w", err)
		}
		*s = MultilineString(strings.Join(lines, ""))
		return nil
	default:
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return fmt.Errorf("multiline string: %w", err)
		}
		*s = MultilineString(str)
		return nil
	}
}

// MarshalJSON encodes the text as a list of lines.
func (s MultilineString) MarshalJSON() ([]byte, error) {
	return json.MarshalWithOption(SplitLines(string(s)), json.DisableHTMLEscape())
}

// String returns the joined text.
func (s MultilineString) String() string {
	return string(s)
}

// SplitLines splits text after every newline, keeping the newline.
// An empty text yields an empty, non-nil slice.
func SplitLines(text string) []string {
	lines := []string{}
	for text != "" {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}
