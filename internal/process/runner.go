// Package process runs external tools (jupyter, pandoc, TeX engines) and
// cleans up browser process trees.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrCommandFailed wraps a non-zero exit or a failed start.
var ErrCommandFailed = errors.New("command failed")

// waitDelay bounds how long Run waits for output pipes after the process
// group has been killed.
const waitDelay = 5 * time.Second

// Runner runs a command to completion.
type Runner interface {
	// Run executes name with args in dir, feeding stdin when non-nil.
	// Canceling ctx kills the command and every process it spawned.
	Run(ctx context.Context, dir string, stdin []byte, name string, args ...string) (stdout, stderr []byte, err error)
}

// LookPathFunc resolves an executable name, as exec.LookPath does.
type LookPathFunc func(file string) (string, error)

// ExecRunner runs commands with os/exec in their own process group.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir string, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- tool names come from configuration
	cmd.Dir = dir
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdout.Bytes(), stderr.Bytes(), ctxErr
		}
		return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("%w: %s: %v%s", ErrCommandFailed, name, err, tail(stderr.Bytes()))
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

// maxTail is the number of stderr bytes quoted in error messages.
const maxTail = 2048

// tail formats the end of a command's stderr for an error message.
func tail(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if s == "" {
		return ""
	}
	if len(s) > maxTail {
		s = "..." + s[len(s)-maxTail:]
	}
	return "\n" + s
}

var _ Runner = ExecRunner{}
