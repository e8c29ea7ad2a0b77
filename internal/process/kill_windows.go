//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills a process tree with taskkill.
// /F = force kill, /T = terminate child processes.
func KillProcessGroup(pid int) {
	// Best-effort; callers have their own fallback kill.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}

// setProcessGroup is a no-op; taskkill /T walks the tree instead.
func setProcessGroup(*exec.Cmd) {}
