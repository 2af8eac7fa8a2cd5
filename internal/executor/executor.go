// Package executor defines how submitted Python code is run.
//
// A Runner executes one snippet in a freshly spawned, time-bounded process
// and reports what happened as a RunResult. Faults of the run itself
// (deadline exceeded, interpreter missing) are NOT returned as Go errors:
// they are outcomes like any other, so callers handle every case in one
// switch on Status.
//
// Implementations:
//   - process: a local `python3 -I -c` subprocess (default)
//   - docker:  `python -I -c` inside a pre-warmed, network-less container
package executor

import (
	"context"
	"errors"
	"time"
)

// Timeout is the wall-clock budget of a single run.
const Timeout = 3 * time.Second

// Status classifies how a run ended.
type Status int

const (
	// StatusExited means the interpreter ran and exited on its own;
	// ExitCode, Stdout and Stderr are meaningful.
	StatusExited Status = iota
	// StatusTimedOut means the run was killed at the deadline. Output
	// captured up to that point is not guaranteed.
	StatusTimedOut
	// StatusLaunchFailed means the interpreter could not be started.
	// Err carries the cause.
	StatusLaunchFailed
	// StatusCanceled means the caller gave up (the client went away)
	// before the run finished. The process was killed like on a timeout.
	StatusCanceled
)

func (s Status) String() string {
	switch s {
	case StatusExited:
		return "exited"
	case StatusTimedOut:
		return "timed_out"
	case StatusLaunchFailed:
		return "launch_failed"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// RunRequest is one snippet plus the exact text fed to its stdin.
type RunRequest struct {
	Code  string
	Stdin string
}

// RunResult is the raw result of a run, before any normalisation.
type RunResult struct {
	Status   Status
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Err      error // set when Status is StatusLaunchFailed
}

// Succeeded reports a clean exit with status 0.
func (r *RunResult) Succeeded() bool {
	return r.Status == StatusExited && r.ExitCode == 0
}

// Interrupted classifies a run stopped before it finished. parent is the
// caller's context: when it was canceled the caller left, anything else
// (the run's own deadline, or a deadline of the caller) is a timeout.
func Interrupted(parent context.Context) Status {
	if errors.Is(parent.Err(), context.Canceled) {
		return StatusCanceled
	}
	return StatusTimedOut
}

// Runner executes code in isolation. Implementations must terminate the
// spawned process (not merely stop waiting for it) when the deadline passes.
type Runner interface {
	Run(ctx context.Context, req RunRequest) *RunResult
}
