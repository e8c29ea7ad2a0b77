//go:build !windows

package process

// Notes:
// - Tests rely on POSIX sh, cat and sleep; they are excluded on Windows.
// - KillProcessGroup is only called with an invalid PID directly. PID 0 would
//   kill the test's own process group. Real group kills are exercised through
//   the cancellation test, which spawns a child that would otherwise outlive
//   the shell.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestExecRunner - Command execution
// ---------------------------------------------------------------------------

func TestExecRunner_Output(t *testing.T) {
	t.Parallel()

	stdout, stderr, err := ExecRunner{}.Run(context.Background(), "", nil, "sh", "-c", "echo out; echo err 1>&2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if string(stdout) != "out\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if string(stderr) != "err\n" {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestExecRunner_Stdin(t *testing.T) {
	t.Parallel()

	stdout, _, err := ExecRunner{}.Run(context.Background(), "", []byte(`{"cells": []}`), "cat")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if string(stdout) != `{"cells": []}` {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestExecRunner_Dir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("here"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := ExecRunner{}.Run(context.Background(), dir, nil, "cat", "marker.txt")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if string(stdout) != "here" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestExecRunner_Failure(t *testing.T) {
	t.Parallel()

	_, _, err := ExecRunner{}.Run(context.Background(), "", nil, "sh", "-c", "echo 'LaTeX Error: missing file' 1>&2; exit 3")
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("error = %v, want ErrCommandFailed", err)
	}
	if !strings.Contains(err.Error(), "LaTeX Error") {
		t.Errorf("error %q should quote stderr", err)
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	t.Parallel()

	_, _, err := ExecRunner{}.Run(context.Background(), "", nil, "definitely-not-a-binary-xyz")
	if !errors.Is(err, ErrCommandFailed) {
		t.Errorf("error = %v, want ErrCommandFailed", err)
	}
}

func TestExecRunner_CancelKillsGroup(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	// The inner sleep inherits stdout; without a group kill Run would block
	// until it exits.
	_, _, err := ExecRunner{}.Run(ctx, "", nil, "sh", "-c", "sleep 30 & sleep 30")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Run() returned after %v, want prompt return", elapsed)
	}
}

// ---------------------------------------------------------------------------
// TestKillProcessGroup - Invalid PID Handling
// ---------------------------------------------------------------------------

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}

func TestTail(t *testing.T) {
	t.Parallel()

	if got := tail(nil); got != "" {
		t.Errorf("tail(nil) = %q", got)
	}
	long := strings.Repeat("x", maxTail+100)
	got := tail([]byte(long))
	if !strings.HasPrefix(got, "\n...") || len(got) != maxTail+4 {
		t.Errorf("tail(long) length = %d, prefix %q", len(got), got[:5])
	}
}
