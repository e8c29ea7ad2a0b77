package yamlutil_test

// Notes:
// - TestInputSizeLimit mutates the package-level MaxInputSize and therefore
//   does not run in parallel.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-dfimage/internal/yamlutil"
)

type tableSection struct {
	Backend string `yaml:"backend"`
	MaxRows int    `yaml:"maxRows"`
	Center  *bool  `yaml:"center"`
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Decoding and input checks
// ---------------------------------------------------------------------------

func TestUnmarshalStrict_Input(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
	}{
		{"valid", []byte("backend: chrome\nmaxRows: 20\ncenter: false"), &tableSection{}, nil},
		{"nil data", nil, &tableSection{}, yamlutil.ErrNilData},
		{"empty data", []byte{}, &tableSection{}, yamlutil.ErrNilData},
		{"nil destination", []byte("backend: chrome"), nil, yamlutil.ErrNilDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UnmarshalStrict() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnmarshalStrict_Values(t *testing.T) {
	t.Parallel()

	var got tableSection
	if err := yamlutil.UnmarshalStrict([]byte("backend: matplotlib\nmaxRows: 20\ncenter: false"), &got); err != nil {
		t.Fatal(err)
	}
	if got.Backend != "matplotlib" || got.MaxRows != 20 {
		t.Errorf("got %+v", got)
	}
	if got.Center == nil || *got.Center {
		t.Errorf("Center = %v, want pointer to false", got.Center)
	}
}

func TestUnmarshalStrict_SyntaxError(t *testing.T) {
	t.Parallel()

	err := yamlutil.UnmarshalStrict([]byte("backend: [unclosed"), &tableSection{})
	if err == nil || !strings.HasPrefix(err.Error(), "yamlutil:") {
		t.Errorf("error = %v, want yamlutil-prefixed error", err)
	}
	if yamlutil.FormatError(err) == "" {
		t.Error("FormatError() returned empty string")
	}
}

func TestUnmarshalStrict_UnknownField(t *testing.T) {
	t.Parallel()

	if err := yamlutil.UnmarshalStrict([]byte("backend: chrome\nmaxRows: 5"), &tableSection{}); err != nil {
		t.Errorf("known fields: unexpected error %v", err)
	}

	err := yamlutil.UnmarshalStrict([]byte("backend: chrome\nmaxRow: 5"), &tableSection{})
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "maxRow") {
		t.Errorf("error %q should name the unknown field", err)
	}
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - Guards memory usage
// ---------------------------------------------------------------------------

func TestInputSizeLimit(t *testing.T) {
	orig := yamlutil.MaxInputSize
	defer func() { yamlutil.MaxInputSize = orig }()
	yamlutil.MaxInputSize = 16

	err := yamlutil.UnmarshalStrict([]byte("backend: "+strings.Repeat("x", 32)), &tableSection{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("error = %v, want ErrInputTooLarge", err)
	}
}

func TestFormatError_Nil(t *testing.T) {
	t.Parallel()

	if got := yamlutil.FormatError(nil); got != "" {
		t.Errorf("FormatError(nil) = %q, want empty", got)
	}
}
