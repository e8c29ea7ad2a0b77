// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-dfimage/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for Chrome launch and connection errors.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "use --chrome-path or ROD_BROWSER_BIN to pick a Chrome binary")
	}
	hints = append(hints, "or use --table-conversion matplotlib --use latex to avoid Chrome")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeouts for slow operations.
func ForTimeout() string {
	return format("for large notebooks, raise --timeout or --execute-timeout")
}

// ForLaTeXNotFound returns hints for a missing TeX installation.
func ForLaTeXNotFound() string {
	return formatHints([]string{
		"install xelatex (TeX Live, MiKTeX or MacTeX)",
		"or convert with --use browser",
	})
}

// ForPandocNotFound returns hints for a missing pandoc binary.
func ForPandocNotFound() string {
	return format("install pandoc (https://pandoc.org/installing.html) or convert with --use browser")
}

// ForJupyterNotFound returns hints for a missing Jupyter installation.
func ForJupyterNotFound() string {
	return format("install nbconvert (pip install nbconvert ipykernel) or pass --jupyter /path/to/jupyter")
}

// ForConfigNotFound returns hints for config file not found errors.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-dfimage") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory errors.
func ForOutputDirectory() string {
	return format("create the directory first; --output-dir is never created automatically")
}

// ForStyleNotFound returns hints listing the available styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
