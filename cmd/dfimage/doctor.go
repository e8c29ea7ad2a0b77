package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	json "github.com/goccy/go-json"

	"github.com/alnah/go-dfimage/internal/export"
	"github.com/alnah/go-dfimage/internal/hints"
	"github.com/alnah/go-dfimage/internal/preprocess"
	"github.com/alnah/go-dfimage/internal/process"
)

// versionTimeout bounds each "--version" probe.
const versionTimeout = 5 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string   `json:"status"` // "ready", "warnings", "errors"
	Chrome   toolInfo `json:"chrome"`
	LaTeX    toolInfo `json:"latex"`
	Pandoc   toolInfo `json:"pandoc"`
	Jupyter  toolInfo `json:"jupyter"`
	Env      envInfo  `json:"environment"`
	System   sysInfo  `json:"system"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// toolInfo holds the detection result for one external tool.
type toolInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// sysInfo holds system check results.
type sysInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorDeps are the probes doctor runs, replaceable in tests.
type doctorDeps struct {
	lookPath   process.LookPathFunc
	lookChrome func() (string, bool)
	runner     process.Runner
	getenv     func(string) string
	tempDir    string
}

func defaultDoctorDeps() *doctorDeps {
	return &doctorDeps{
		lookPath:   exec.LookPath,
		lookChrome: launcher.LookPath,
		runner:     process.ExecRunner{},
		getenv:     os.Getenv,
		tempDir:    os.TempDir(),
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	return runDoctorWith(args, env, defaultDoctorDeps())
}

func runDoctorWith(args []string, env *Environment, deps *doctorDeps) int {
	jsonOutput := false
	for _, arg := range args {
		switch arg {
		case "--json":
			jsonOutput = true
		case "-h", "--help":
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
	}

	result := runDoctor(deps)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(deps *doctorDeps) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  deps.getenv("ROD_NO_SANDBOX"),
			BrowserBin: deps.getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result, deps)
	checkLaTeX(result, deps)
	checkTool(&result.Pandoc, export.DefaultPandoc, deps)
	if !result.Pandoc.Found {
		result.Warnings = append(result.Warnings, "pandoc not found: --use latex unavailable")
	}
	jupyter := deps.getenv("DFIMAGE_JUPYTER")
	if jupyter == "" {
		jupyter = preprocess.DefaultJupyter
	}
	checkTool(&result.Jupyter, jupyter, deps)
	if !result.Jupyter.Found {
		result.Warnings = append(result.Warnings, "jupyter not found: --execute unavailable")
	}
	checkEnvironment(result, deps)
	checkSystem(result, deps)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkChrome locates Chrome. A missing browser is a warning: rod downloads
// one on first use, and matplotlib tables with LaTeX PDFs need none.
func checkChrome(result *doctorResult, deps *doctorDeps) {
	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		chromePath = deps.getenv("DFIMAGE_CHROME_PATH")
	}
	if chromePath == "" {
		var found bool
		chromePath, found = deps.lookChrome()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; rod will download one on first use")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Version = probeVersion(deps.runner, chromePath)
}

// checkLaTeX finds the TeX engine the latex PDF engine would use.
func checkLaTeX(result *doctorResult, deps *doctorDeps) {
	cmd, err := export.FindLaTeXCommand(nil, deps.lookPath)
	if err != nil {
		result.Warnings = append(result.Warnings, "no TeX engine found: --use latex unavailable")
		return
	}
	checkTool(&result.LaTeX, cmd[0], deps)
}

// checkTool resolves name on PATH and records its version line.
func checkTool(info *toolInfo, name string, deps *doctorDeps) {
	path, err := deps.lookPath(name)
	if err != nil {
		return
	}
	info.Found = true
	info.Path = path
	info.Version = probeVersion(deps.runner, path)
}

// probeVersion returns the first line of "<bin> --version", or "".
func probeVersion(runner process.Runner, bin string) string {
	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()

	out, _, err := runner.Run(ctx, "", nil, bin, "--version")
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line)
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, deps *doctorDeps) {
	result.Env.Container, result.Env.ContainerHint = isContainer(deps.getenv)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if deps.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected: Chrome runs without sandbox; set ROD_NO_SANDBOX=1 to make it explicit")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("DFIMAGE_CONTAINER") == "1" {
		return true, "DFIMAGE_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for every conversion.
func checkSystem(result *doctorResult, deps *doctorDeps) {
	testFile := filepath.Join(deps.tempDir, "dfimage-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", deps.tempDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "dfimage doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Tools")
	printTool(w, "Chrome", r.Chrome)
	printTool(w, "LaTeX", r.LaTeX)
	printTool(w, "pandoc", r.Pandoc)
	printTool(w, "jupyter", r.Jupyter)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printTool(w io.Writer, name string, t toolInfo) {
	if !t.Found {
		fmt.Fprintf(w, "  [WARN] %s: not found\n", name)
		return
	}
	if t.Version != "" {
		fmt.Fprintf(w, "  [OK] %s: %s (%s)\n", name, t.Path, t.Version)
		return
	}
	fmt.Fprintf(w, "  [OK] %s: %s\n", name, t.Path)
}
