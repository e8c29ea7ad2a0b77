package notebook

// Notes:
// - Tests exercise Parse/Marshal through the public API with small literal
//   notebooks rather than fixture files.
// - Key ordering of the encoded JSON is not asserted; only presence/absence of
//   the keys nbformat cares about.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

const sampleNotebook = `{
 "cells": [
  {
   "cell_type": "markdown",
   "id": "intro",
   "metadata": {},
   "source": ["# Title\n", "Some <b>text</b>"]
  },
  {
   "cell_type": "code",
   "execution_count": 1,
   "id": "c1",
   "metadata": {"tags": ["x"]},
   "outputs": [
    {"name": "stdout", "output_type": "stream", "text": ["hello\n"]},
    {"data": {"text/plain": ["1"]}, "execution_count": 1, "metadata": {}, "output_type": "execute_result"}
   ],
   "source": "print('hello')\n1"
  },
  {
   "cell_type": "raw",
   "metadata": {},
   "source": "raw text"
  }
 ],
 "metadata": {"language_info": {"name": "python"}},
 "nbformat": 4,
 "nbformat_minor": 5
}`

// ---------------------------------------------------------------------------
// TestParse - Decoding
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	nb, err := Parse([]byte(sampleNotebook))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(nb.Cells) != 3 {
		t.Fatalf("len(Cells) = %d, want 3", len(nb.Cells))
	}
	if got := nb.Cells[0].Source.String(); got != "# Title\nSome <b>text</b>" {
		t.Errorf("list source = %q", got)
	}
	if got := nb.Cells[1].Source.String(); got != "print('hello')\n1" {
		t.Errorf("string source = %q", got)
	}
	if got := nb.Cells[1].Outputs[0].Text.String(); got != "hello\n" {
		t.Errorf("stream text = %q", got)
	}
	if got := nb.Cells[1].Outputs[1].Data.Text(MimePlain); got != "1" {
		t.Errorf("execute_result text/plain = %q", got)
	}
	if nb.Cells[2].Metadata == nil {
		t.Error("metadata should be normalized to an empty map")
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"invalid json", `{"cells": [`, ErrParseNotebook},
		{"nbformat 3", `{"cells": [], "metadata": {}, "nbformat": 3, "nbformat_minor": 0}`, ErrUnsupportedVersion},
		{"missing nbformat", `{"cells": []}`, ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestReadFile - Loading with cell limit
// ---------------------------------------------------------------------------

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sample.ipynb")
	if err := os.WriteFile(path, []byte(sampleNotebook), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"no limit", 0, 3},
		{"negative limit", -1, 3},
		{"limit 1", 1, 1},
		{"limit 2", 2, 2},
		{"limit beyond length", 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nb, err := ReadFile(path, tt.limit)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if len(nb.Cells) != tt.want {
				t.Errorf("len(Cells) = %d, want %d", len(nb.Cells), tt.want)
			}
		})
	}
}

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.ipynb"), 0)
	if !errors.Is(err, ErrReadNotebook) {
		t.Errorf("error = %v, want ErrReadNotebook", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist in chain", err)
	}
}

// ---------------------------------------------------------------------------
// TestMarshal - Encoding
// ---------------------------------------------------------------------------

func TestMarshal_RoundTripKeepsSources(t *testing.T) {
	t.Parallel()

	nb, err := Parse([]byte(sampleNotebook))
	if err != nil {
		t.Fatal(err)
	}

	data, err := Marshal(nb)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("encoded notebook should end with a newline")
	}
	if !strings.Contains(string(data), `<b>text</b>`) {
		t.Error("HTML characters should not be escaped")
	}

	again, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error = %v", err)
	}
	for i := range nb.Cells {
		if nb.Cells[i].Source != again.Cells[i].Source {
			t.Errorf("cell %d source = %q, want %q", i, again.Cells[i].Source, nb.Cells[i].Source)
		}
	}
}

func TestMarshal_CellKeys(t *testing.T) {
	t.Parallel()

	nb := &Notebook{
		NBFormat:      4,
		NBFormatMinor: 5,
		Cells: []*Cell{
			{CellType: CellMarkdown, Source: "text"},
			{CellType: CellCode, Source: "x = 1"},
		},
	}

	data, err := Marshal(nb)
	if err != nil {
		t.Fatal(err)
	}

	var raw struct {
		Cells []map[string]any `json:"cells"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}

	if _, ok := raw.Cells[0]["outputs"]; ok {
		t.Error("markdown cell should not carry outputs")
	}
	if _, ok := raw.Cells[0]["execution_count"]; ok {
		t.Error("markdown cell should not carry execution_count")
	}
	if _, ok := raw.Cells[1]["outputs"]; !ok {
		t.Error("code cell must carry outputs")
	}
	if v, ok := raw.Cells[1]["execution_count"]; !ok || v != nil {
		t.Errorf("code cell execution_count = %v (present=%v), want null", v, ok)
	}
}

// ---------------------------------------------------------------------------
// TestLanguage - Kernel language lookup
// ---------------------------------------------------------------------------

func TestLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		metadata map[string]any
		want     string
	}{
		{"language_info", map[string]any{"language_info": map[string]any{"name": "julia"}}, "julia"},
		{"kernelspec", map[string]any{"kernelspec": map[string]any{"language": "R"}}, "R"},
		{"default", map[string]any{}, "python"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nb := &Notebook{Metadata: tt.metadata}
			if got := nb.Language(); got != tt.want {
				t.Errorf("Language() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStem(t *testing.T) {
	t.Parallel()

	if got := Stem("/data/analysis.v2.ipynb"); got != "analysis.v2" {
		t.Errorf("Stem() = %q, want %q", got, "analysis.v2")
	}
}

// ---------------------------------------------------------------------------
// TestSplitLines / TestMimeBundleText
// ---------------------------------------------------------------------------

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{"a\n", []string{"a\n"}},
		{"a\nb", []string{"a\n", "b"}},
		{"a\n\nb\n", []string{"a\n", "\n", "b\n"}},
	}

	for _, tt := range tests {
		got := SplitLines(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMimeBundleText(t *testing.T) {
	t.Parallel()

	b := MimeBundle{
		"text/plain":       []any{"a\n", "b"},
		"text/html":        "<p>x</p>",
		"application/json": map[string]any{"k": float64(1)},
	}

	if got := b.Text("text/plain"); got != "a\nb" {
		t.Errorf("list text = %q", got)
	}
	if got := b.Text("text/html"); got != "<p>x</p>" {
		t.Errorf("string text = %q", got)
	}
	if got := b.Text("application/json"); got != `{"k":1}` {
		t.Errorf("json text = %q", got)
	}
	if got := b.Text("image/png"); got != "" {
		t.Errorf("missing mime = %q, want empty", got)
	}
	if !b.Has("text/html") || b.Has("image/png") {
		t.Error("Has() mismatch")
	}
}
