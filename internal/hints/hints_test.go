package hints

// Notes:
// - ForBrowserConnect tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable
// These are acceptable gaps: we test observable behavior through environment manipulation.

import (
	"strings"
	"testing"
)

func stubContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

// ---------------------------------------------------------------------------
// TestForBrowserConnect - Environment-aware browser hints
// ---------------------------------------------------------------------------

func TestForBrowserConnect_InCI(t *testing.T) {
	stubContainer(t, false)
	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "")
	t.Setenv("ROD_BROWSER_BIN", "")

	hint := ForBrowserConnect()

	for _, want := range []string{"hint:", "ROD_NO_SANDBOX", "--chrome-path", "matplotlib"} {
		if !strings.Contains(hint, want) {
			t.Errorf("hint %q missing %q", hint, want)
		}
	}
}

func TestForBrowserConnect_InDocker(t *testing.T) {
	stubContainer(t, true)
	t.Setenv("CI", "")
	t.Setenv("ROD_NO_SANDBOX", "")
	t.Setenv("ROD_BROWSER_BIN", "")

	if hint := ForBrowserConnect(); !strings.Contains(hint, "ROD_NO_SANDBOX") {
		t.Errorf("expected ROD_NO_SANDBOX suggestion in Docker, got %q", hint)
	}
}

func TestForBrowserConnect_AllConfigured(t *testing.T) {
	stubContainer(t, true)
	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "1")
	t.Setenv("ROD_BROWSER_BIN", "/usr/bin/chrome")

	hint := ForBrowserConnect()

	if strings.Contains(hint, "ROD_NO_SANDBOX") || strings.Contains(hint, "ROD_BROWSER_BIN") {
		t.Errorf("configured variables should not be suggested, got %q", hint)
	}
	if !strings.Contains(hint, "matplotlib") {
		t.Errorf("fallback backend should always be suggested, got %q", hint)
	}
}

// ---------------------------------------------------------------------------
// TestToolchainHints - LaTeX, pandoc, jupyter
// ---------------------------------------------------------------------------

func TestToolchainHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hint     string
		contains string
	}{
		{"latex", ForLaTeXNotFound(), "--use browser"},
		{"pandoc", ForPandocNotFound(), "pandoc"},
		{"jupyter", ForJupyterNotFound(), "--jupyter"},
		{"timeout", ForTimeout(), "--timeout"},
		{"output dir", ForOutputDirectory(), "--output-dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.HasPrefix(tt.hint, "\n  hint: ") {
				t.Errorf("hint format inconsistent: %q", tt.hint)
			}
			if !strings.Contains(tt.hint, tt.contains) {
				t.Errorf("hint %q missing %q", tt.hint, tt.contains)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestForConfigNotFound / TestForStyleNotFound
// ---------------------------------------------------------------------------

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForConfigNotFound(nil); !strings.Contains(hint, "--config") {
		t.Errorf("hint = %q, want --config", hint)
	}

	hint := ForConfigNotFound([]string{"./foo.yaml", "/home/u/.config/go-dfimage/foo.yaml"})
	if !strings.Contains(hint, "go-dfimage/foo.yaml") {
		t.Errorf("hint = %q, want user config path", hint)
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForStyleNotFound(nil); hint != "" {
		t.Errorf("expected empty hint, got %q", hint)
	}
	if hint := ForStyleNotFound([]string{"dataframe", "notebook"}); !strings.Contains(hint, "dataframe, notebook") {
		t.Errorf("hint = %q", hint)
	}
}
