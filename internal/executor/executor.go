package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Control CLI subcommands.
const (
	CmdGetStatus    = "get-status"
	CmdSetStatus    = "set-status"
	CmdSetSpeed     = "set-speed"
	CmdSetRGBColor  = "set-rgb-color"
	CmdSetIntensity = "set-intensity"
)

// Logger defines the logging interface for the executor.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Runner runs one control invocation against a device. The concrete
// implementation shells out to the control binary; tests substitute
// fakes.
type Runner interface {
	// Run invokes a subcommand for a device and returns the trimmed
	// stdout on success. A non-zero exit, a spawn failure or a
	// cancelled context all surface as an error, never a panic.
	Run(ctx context.Context, subcommand, deviceID string, cloudID int, args ...string) (string, error)
}

// Config holds executor configuration.
type Config struct {
	// Binary is the path to the control executable.
	Binary string

	// Address is the local IPv4 address the CLI binds for device I/O.
	Address string

	// Netmask is the local network mask.
	Netmask string

	// Logger receives diagnostic output. Optional.
	Logger Logger
}

// CLI invokes the external control binary with the positional argument
// convention it expects:
//
//	<address> <netmask> <subcommand> <device-id> <cloud-id> [args...]
type CLI struct {
	binary  string
	address string
	netmask string
	logger  Logger
}

// New creates a CLI executor.
//
// Parameters:
//   - cfg: Executor configuration
//
// Returns:
//   - *CLI: Ready executor; no I/O happens until Run
func New(cfg Config) *CLI {
	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &CLI{
		binary:  cfg.Binary,
		address: cfg.Address,
		netmask: cfg.Netmask,
		logger:  logger,
	}
}

// Run executes one control invocation.
//
// Exit code 0 is the only success contract; the trimmed stdout is the
// result. Non-zero exit and launch failure both return an error
// wrapping ErrCommandFailed with the diagnostic text.
//
// Parameters:
//   - ctx: Context; cancellation kills the process
//   - subcommand: One of the Cmd* constants
//   - deviceID: Device or group poll identifier
//   - cloudID: Secondary identifier the CLI requires
//   - args: Subcommand-specific trailing arguments
//
// Returns:
//   - string: Trimmed stdout
//   - error: ErrCommandFailed on any failure path
func (c *CLI) Run(ctx context.Context, subcommand, deviceID string, cloudID int, args ...string) (string, error) {
	argv := make([]string, 0, 5+len(args))
	argv = append(argv, c.address, c.netmask, subcommand, deviceID, strconv.Itoa(cloudID))
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, c.binary, argv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("running control command",
		"subcommand", subcommand,
		"device_id", deviceID,
	)

	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		c.logger.Warn("control command failed",
			"subcommand", subcommand,
			"device_id", deviceID,
			"error", diag,
		)
		return "", fmt.Errorf("%w: %s %s: %s", ErrCommandFailed, subcommand, deviceID, diag)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// RunWithRetry runs an invocation and, on failure, retries exactly
// once after a fixed delay. The delay respects context cancellation.
//
// Parameters:
//   - ctx: Context for cancellation
//   - r: Runner to invoke
//   - delay: Pause before the single retry
//   - subcommand, deviceID, cloudID, args: As for Runner.Run
//
// Returns:
//   - string: Trimmed stdout of whichever attempt succeeded
//   - error: The second attempt's error if both fail
func RunWithRetry(ctx context.Context, r Runner, delay time.Duration, subcommand, deviceID string, cloudID int, args ...string) (string, error) {
	out, err := r.Run(ctx, subcommand, deviceID, cloudID, args...)
	if err == nil {
		return out, nil
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(delay):
	}

	return r.Run(ctx, subcommand, deviceID, cloudID, args...)
}
