package executor

import "errors"

// Executor errors.
var (
	// ErrCommandFailed indicates a control invocation that exited
	// non-zero or failed to launch. The wrapped text carries the
	// stderr output or spawn diagnostic.
	ErrCommandFailed = errors.New("control command failed")
)
