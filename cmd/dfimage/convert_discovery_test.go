package main

// Notes:
// - discoverNotebooks: single files, recursive directories, checkpoint and
//   saved-notebook skipping, de-duplication and the error sentinels.
// - validateWorkers: bounds only.

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	dfimage "github.com/alnah/go-dfimage"
)

func TestDiscoverNotebooks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeNotebooks(t, dir,
		"a.ipynb",
		"nested/b.IPYNB",
		"nested/.ipynb_checkpoints/b-checkpoint.ipynb",
		"a_dataframe_image.ipynb",
		"notes.md",
	)

	tests := []struct {
		name    string
		inputs  []string
		want    []string
		wantErr error
	}{
		{
			name:   "directory",
			inputs: []string{dir},
			want:   []string{filepath.Join(dir, "a.ipynb"), filepath.Join(dir, "nested", "b.IPYNB")},
		},
		{
			name:   "explicit file and duplicate",
			inputs: []string{filepath.Join(dir, "a.ipynb"), dir + "/./a.ipynb"},
			want:   []string{filepath.Join(dir, "a.ipynb")},
		},
		{
			name:   "saved notebook named explicitly",
			inputs: []string{filepath.Join(dir, "a_dataframe_image.ipynb")},
			want:   []string{filepath.Join(dir, "a_dataframe_image.ipynb")},
		},
		{name: "no inputs", wantErr: ErrNoInput},
		{name: "wrong extension", inputs: []string{filepath.Join(dir, "notes.md")}, wantErr: ErrInvalidExtension},
		{name: "missing", inputs: []string{filepath.Join(dir, "missing.ipynb")}, wantErr: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := discoverNotebooks(tt.inputs)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("discoverNotebooks() error = %v, want %v", err, tt.wantErr)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("discoverNotebooks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscoverNotebooks_EmptyDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeNotebooks(t, dir, "readme.md")

	if _, err := discoverNotebooks([]string{dir}); !errors.Is(err, ErrNoNotebooks) {
		t.Errorf("error = %v, want ErrNoNotebooks", err)
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{dfimage.MaxPoolSize, false},
		{dfimage.MaxPoolSize + 1, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", tt.n, err)
		}
	}
}
