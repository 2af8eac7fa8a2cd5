// Package process runs snippets as local Python subprocesses.
//
// Each run is a fresh `python3 -I -c <code>`:
//   - -I (isolated mode) ignores PYTHON* variables and the user site
//     directory, so a snippet behaves the same whatever the host setup
//   - the environment is rebuilt from scratch (PATH, HOME, UTF-8 locale)
//   - on Unix the child gets its own process group, and the whole group is
//     SIGKILLed at the deadline so forked children cannot outlive the run
//
// This is best-effort isolation, not a security boundary: the child can
// touch anything the server's user can. Use the docker runner when that
// matters.
package process

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sakif/python-playground/internal/executor"
)

// waitDelay bounds how long Wait keeps draining pipes after the process
// was killed; a grandchild holding stdout open cannot stretch the run.
const waitDelay = 500 * time.Millisecond

// Config holds the settings of the local runner.
type Config struct {
	// PythonBin is the interpreter to execute, looked up on PATH.
	PythonBin string
	// Timeout is the wall-clock budget of one run.
	Timeout time.Duration
	// WorkDir is the working directory of the child.
	WorkDir string
}

// DefaultConfig returns python3 with the standard 3 second budget.
func DefaultConfig() Config {
	return Config{
		PythonBin: "python3",
		Timeout:   executor.Timeout,
		WorkDir:   os.TempDir(),
	}
}

// Runner implements executor.Runner with os/exec.
type Runner struct {
	config Config
	logger *slog.Logger
}

var _ executor.Runner = (*Runner)(nil)

// New creates a Runner. Zero fields of cfg take their default.
func New(cfg Config, logger *slog.Logger) *Runner {
	def := DefaultConfig()
	if cfg.PythonBin == "" {
		cfg.PythonBin = def.PythonBin
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = def.WorkDir
	}
	return &Runner{config: cfg, logger: logger}
}

// Run executes req.Code with req.Stdin on standard input.
func (r *Runner) Run(ctx context.Context, req executor.RunRequest) *executor.RunResult {
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	stdout := executor.NewLimitedBuffer(executor.MaxCaptureBytes)
	// Exceptions are reported last, so stderr keeps its tail.
	stderr := executor.NewTailBuffer(executor.MaxCaptureBytes)

	cmd := exec.CommandContext(runCtx, r.config.PythonBin, "-I", "-c", req.Code)
	cmd.Dir = r.config.WorkDir
	cmd.Env = environ()
	cmd.Stdin = strings.NewReader(req.Stdin)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	killProcessGroupOnCancel(cmd)

	err := cmd.Run()
	// The interpreter is gone, but a child it left behind may still run
	// in the group. Nothing of this run may outlive it.
	killProcessGroup(cmd)

	result := &executor.RunResult{
		Status:   executor.StatusExited,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	r.logTruncation(stdout, stderr)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		// clean exit, code 0
	case runCtx.Err() != nil:
		result.Status = executor.Interrupted(ctx)
		result.ExitCode = -1
		r.logger.Debug("python run killed before it finished",
			slog.String("status", result.Status.String()),
			slog.Duration("timeout", r.config.Timeout),
		)
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrWaitDelay):
		// The interpreter exited on its own; only a leftover child kept
		// the pipes open past waitDelay.
		result.ExitCode = cmd.ProcessState.ExitCode()
		r.logger.Debug("python left a child holding its output open")
	default:
		result.Status = executor.StatusLaunchFailed
		result.ExitCode = -1
		result.Err = err
		r.logger.Error("failed to start python",
			slog.String("bin", r.config.PythonBin),
			slog.String("error", err.Error()),
		)
	}

	return result
}

func (r *Runner) logTruncation(stdout, stderr *executor.LimitedBuffer) {
	if stdout.Truncated() || stderr.Truncated() {
		r.logger.Info("python output exceeded the capture budget",
			slog.Bool("stdout", stdout.Truncated()),
			slog.Bool("stderr", stderr.Truncated()),
			slog.Int("maxBytes", executor.MaxCaptureBytes),
		)
	}
}

// environ builds the child's environment from scratch.
func environ() []string {
	path := os.Getenv("PATH")
	if path == "" {
		path = "/usr/local/bin:/usr/bin:/bin"
	}
	return []string{
		"PATH=" + path,
		"HOME=" + os.TempDir(),
		"LANG=C.UTF-8",
		"LC_ALL=C.UTF-8",
	}
}
