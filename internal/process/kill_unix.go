//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; callers have their own fallback kill.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

// setProcessGroup starts cmd as the leader of a new process group.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
