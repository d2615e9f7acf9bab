package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestRunSuccessReturnsTrimmedStdout(t *testing.T) {
	cli := New(Config{
		Binary:  "/bin/sh",
		Address: "-c",
		Netmask: "echo \"  7  \"",
	})

	// /bin/sh -c 'echo "  7  "' ignores the trailing positional args.
	out, err := cli.Run(context.Background(), CmdGetStatus, "A:x:7", 10)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out != "7" {
		t.Errorf("Run() stdout = %q, want trimmed \"7\"", out)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	cli := New(Config{
		Binary:  "/bin/sh",
		Address: "-c",
		Netmask: "echo device unreachable >&2; exit 3",
	})

	_, err := cli.Run(context.Background(), CmdGetStatus, "A:x:7", 10)
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("Run() error = %v, want ErrCommandFailed", err)
	}
	if !strings.Contains(err.Error(), "device unreachable") {
		t.Errorf("Run() error should carry stderr text, got %v", err)
	}
}

func TestRunMissingBinary(t *testing.T) {
	cli := New(Config{
		Binary:  "/nonexistent/smarteefi-cli",
		Address: "192.168.1.50",
		Netmask: "255.255.255.0",
	})

	_, err := cli.Run(context.Background(), CmdGetStatus, "A:x:7", 10)
	if !errors.Is(err, ErrCommandFailed) {
		t.Errorf("Run() error = %v, want ErrCommandFailed", err)
	}
}

// recordingRunner scripts a sequence of results and records calls.
type recordingRunner struct {
	results []error
	outputs []string
	calls   int
}

func (r *recordingRunner) Run(_ context.Context, _, _ string, _ int, _ ...string) (string, error) {
	i := r.calls
	r.calls++
	if i >= len(r.results) {
		return "", fmt.Errorf("unexpected call %d", i)
	}
	if r.results[i] != nil {
		return "", r.results[i]
	}
	return r.outputs[i], nil
}

func TestRunWithRetrySucceedsFirstTry(t *testing.T) {
	r := &recordingRunner{results: []error{nil}, outputs: []string{"5"}}

	out, err := RunWithRetry(context.Background(), r, time.Millisecond, CmdGetStatus, "A:x:7", 10)
	if err != nil {
		t.Fatalf("RunWithRetry() error = %v", err)
	}
	if out != "5" || r.calls != 1 {
		t.Errorf("out = %q, calls = %d, want 5/1", out, r.calls)
	}
}

func TestRunWithRetrySucceedsSecondTry(t *testing.T) {
	r := &recordingRunner{
		results: []error{ErrCommandFailed, nil},
		outputs: []string{"", "5"},
	}

	out, err := RunWithRetry(context.Background(), r, time.Millisecond, CmdGetStatus, "A:x:7", 10)
	if err != nil {
		t.Fatalf("RunWithRetry() error = %v", err)
	}
	if out != "5" || r.calls != 2 {
		t.Errorf("out = %q, calls = %d, want 5/2", out, r.calls)
	}
}

func TestRunWithRetryStopsAfterSecondFailure(t *testing.T) {
	r := &recordingRunner{results: []error{ErrCommandFailed, ErrCommandFailed}}

	_, err := RunWithRetry(context.Background(), r, time.Millisecond, CmdGetStatus, "A:x:7", 10)
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("RunWithRetry() error = %v, want ErrCommandFailed", err)
	}
	if r.calls != 2 {
		t.Errorf("calls = %d, want exactly 2 (no third attempt)", r.calls)
	}
}

func TestRunWithRetryHonoursCancellation(t *testing.T) {
	r := &recordingRunner{results: []error{ErrCommandFailed}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunWithRetry(ctx, r, time.Hour, CmdGetStatus, "A:x:7", 10)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunWithRetry() error = %v, want context.Canceled", err)
	}
	if r.calls != 1 {
		t.Errorf("calls = %d, want 1", r.calls)
	}
}
