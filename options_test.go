package dfimage

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseTargets
// ---------------------------------------------------------------------------

func TestParseTargets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		to      []string
		want    string
		wantErr error
	}{
		{"pdf", []string{"pdf"}, "pdf", nil},
		{"markdown alias", []string{"markdown"}, "md", nil},
		{"both ordered", []string{"pdf", "md"}, "md,pdf", nil},
		{"dedupe", []string{"md", "markdown", "md"}, "md", nil},
		{"upper case", []string{"PDF"}, "", ErrInvalidTarget},
		{"mixed case alias", []string{"Markdown"}, "", ErrInvalidTarget},
		{"upper case among valid", []string{"md", "MD"}, "", ErrInvalidTarget},
		{"padded", []string{" pdf "}, "", ErrInvalidTarget},
		{"padded md", []string{" md "}, "", ErrInvalidTarget},
		{"unknown", []string{"pdf", "html"}, "", ErrInvalidTarget},
		{"empty", nil, "", ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTargets(tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseTargets(%v) error = %v, want %v", tt.to, err, tt.wantErr)
			}
			if strings.Join(got, ",") != tt.want {
				t.Errorf("ParseTargets(%v) = %v, want %s", tt.to, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestOptions_Validate
// ---------------------------------------------------------------------------

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr error
	}{
		{"defaults", func(*Options) {}, nil},
		{"browser matplotlib", func(o *Options) { o.Use = "BROWSER"; o.TableConversion = "matplotlib" }, nil},
		{"bad target", func(o *Options) { o.To = []string{"docx"} }, ErrInvalidTarget},
		{"bad engine", func(o *Options) { o.Use = "word" }, ErrInvalidEngine},
		{"bad table", func(o *Options) { o.TableConversion = "seaborn" }, ErrInvalidTableConversion},
		{"zero rows", func(o *Options) { o.MaxRows = 0 }, ErrInvalidDimension},
		{"negative cols", func(o *Options) { o.MaxCols = -1 }, ErrInvalidDimension},
		{"zero width", func(o *Options) { o.ScreenshotWidth = 0 }, ErrInvalidDimension},
		{"zero height", func(o *Options) { o.ScreenshotHeight = 0 }, ErrInvalidDimension},
		{"negative limit", func(o *Options) { o.Limit = -1 }, ErrInvalidLimit},
		{"negative timeout", func(o *Options) { o.ExecuteTimeout = -1 }, ErrInvalidTimeout},
		{"name with dir", func(o *Options) { o.DocumentName = "out/report" }, ErrInvalidDocumentName},
		{"name dotdot", func(o *Options) { o.DocumentName = ".." }, ErrInvalidDocumentName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			tt.mutate(opts)
			if err := opts.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptions_NeedsLaTeX(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if !opts.needsLaTeX([]string{FormatPDF}) {
		t.Error("latex pdf needs TeX")
	}
	if opts.needsLaTeX([]string{FormatMarkdown}) {
		t.Error("markdown does not need TeX")
	}
	opts.Use = EngineBrowser
	if opts.needsLaTeX([]string{FormatPDF}) {
		t.Error("browser pdf does not need TeX")
	}
}
