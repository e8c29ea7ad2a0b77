package main

// Notes:
// - runDoctor runs with fake probes: a lookPath map, a fixed Chrome lookup
//   and a Runner answering "--version". The real binaries are never run.
// - The Chrome path must exist on disk, so tests point it at a temp file.
// - /.dockerenv detection depends on the host; container assertions only use
//   DFIMAGE_CONTAINER, which takes priority.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

// versionRunner answers "<bin> --version" with "<base> 1.0".
type versionRunner struct{}

func (versionRunner) Run(_ context.Context, _ string, _ []byte, name string, _ ...string) ([]byte, []byte, error) {
	return []byte(filepath.Base(name) + " 1.0\nextra line\n"), nil, nil
}

func fakeDoctorDeps(t *testing.T, tools map[string]bool, env map[string]string) *doctorDeps {
	t.Helper()
	chrome := filepath.Join(t.TempDir(), "chrome")
	if err := os.WriteFile(chrome, nil, 0o755); err != nil {
		t.Fatal(err)
	}
	return &doctorDeps{
		lookPath: func(file string) (string, error) {
			if tools[file] {
				return "/usr/bin/" + file, nil
			}
			return "", errors.New("not found")
		},
		lookChrome: func() (string, bool) { return chrome, tools["chrome"] },
		runner:     versionRunner{},
		getenv:     func(k string) string { return env[k] },
		tempDir:    t.TempDir(),
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctor
// ---------------------------------------------------------------------------

func TestRunDoctor_AllTools(t *testing.T) {
	t.Parallel()

	deps := fakeDoctorDeps(t, map[string]bool{
		"chrome": true, "xelatex": true, "pandoc": true, "jupyter": true,
	}, map[string]string{"ROD_NO_SANDBOX": "1"})

	r := runDoctor(deps)

	if !r.Chrome.Found || r.Chrome.Version != "chrome 1.0" {
		t.Errorf("Chrome = %+v", r.Chrome)
	}
	if r.LaTeX.Path != "/usr/bin/xelatex" || r.LaTeX.Version != "xelatex 1.0" {
		t.Errorf("LaTeX = %+v", r.LaTeX)
	}
	if !r.Pandoc.Found || !r.Jupyter.Found {
		t.Errorf("Pandoc = %+v Jupyter = %+v", r.Pandoc, r.Jupyter)
	}
	if !r.System.TempWritable {
		t.Error("temp dir should be writable")
	}
	if len(r.Errors) != 0 {
		t.Errorf("Errors = %v", r.Errors)
	}
}

func TestRunDoctor_MissingTools(t *testing.T) {
	t.Parallel()

	deps := fakeDoctorDeps(t, map[string]bool{"pdflatex": true}, map[string]string{"DFIMAGE_JUPYTER": "myjupyter"})

	r := runDoctor(deps)

	if r.Status != "warnings" {
		t.Errorf("Status = %q, want warnings", r.Status)
	}
	if r.Chrome.Found || r.Pandoc.Found || r.Jupyter.Found {
		t.Errorf("unexpected tools found: %+v", r)
	}
	if r.LaTeX.Path != "/usr/bin/pdflatex" {
		t.Errorf("LaTeX fallback = %+v, want pdflatex", r.LaTeX)
	}
	joined := strings.Join(r.Warnings, "\n")
	for _, want := range []string{"Chrome", "pandoc", "jupyter"} {
		if !strings.Contains(joined, want) {
			t.Errorf("warnings missing %q:\n%s", want, joined)
		}
	}
}

func TestRunDoctor_Errors(t *testing.T) {
	t.Parallel()

	t.Run("chrome path missing", func(t *testing.T) {
		t.Parallel()

		deps := fakeDoctorDeps(t, nil, map[string]string{"ROD_BROWSER_BIN": "/nonexistent/chrome"})
		r := runDoctor(deps)
		if r.Status != "errors" || !strings.Contains(strings.Join(r.Errors, ""), "/nonexistent/chrome") {
			t.Errorf("Status = %q Errors = %v", r.Status, r.Errors)
		}
	})

	t.Run("temp not writable", func(t *testing.T) {
		t.Parallel()

		deps := fakeDoctorDeps(t, nil, nil)
		deps.tempDir = filepath.Join(t.TempDir(), "missing")
		r := runDoctor(deps)
		if r.System.TempWritable || r.Status != "errors" {
			t.Errorf("System = %+v Status = %q", r.System, r.Status)
		}
	})
}

func TestIsContainer_Override(t *testing.T) {
	t.Parallel()

	ok, hint := isContainer(func(k string) string {
		if k == "DFIMAGE_CONTAINER" {
			return "1"
		}
		return ""
	})
	if !ok || hint != "DFIMAGE_CONTAINER=1" {
		t.Errorf("isContainer() = %v, %q", ok, hint)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorWith - Output formats and exit codes
// ---------------------------------------------------------------------------

func TestRunDoctorWith_JSON(t *testing.T) {
	t.Parallel()

	env, stdout, _, _ := testEnv(&fakeConverter{})
	deps := fakeDoctorDeps(t, map[string]bool{"chrome": true, "xelatex": true, "pandoc": true, "jupyter": true}, nil)

	if code := runDoctorWith([]string{"--json"}, env, deps); code != ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, ExitSuccess)
	}

	var got doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if !got.Pandoc.Found || got.Pandoc.Path != "/usr/bin/pandoc" {
		t.Errorf("pandoc = %+v", got.Pandoc)
	}
}

func TestRunDoctorWith_Text(t *testing.T) {
	t.Parallel()

	env, stdout, _, _ := testEnv(&fakeConverter{})
	deps := fakeDoctorDeps(t, nil, map[string]string{"ROD_BROWSER_BIN": "/nonexistent"})

	if code := runDoctorWith(nil, env, deps); code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}
	for _, want := range []string{"dfimage doctor", "[WARN] pandoc: not found", "Status: Not ready"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestPrintDoctorResult_Ready(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printDoctorResult(&buf, &doctorResult{
		Status: "ready",
		Chrome: toolInfo{Found: true, Path: "/chrome", Version: "Chromium 120"},
		System: sysInfo{TempWritable: true},
	})
	if !strings.Contains(buf.String(), "[OK] Chrome: /chrome (Chromium 120)") ||
		!strings.Contains(buf.String(), "Status: Ready to convert") {
		t.Errorf("output:\n%s", buf.String())
	}
}
