package process_test

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/python-playground/internal/executor"
	"github.com/sakif/python-playground/internal/executor/process"
)

func newTestRunner(t *testing.T, cfg process.Config) *process.Runner {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available on PATH")
	}
	return process.New(cfg, slog.New(slog.DiscardHandler))
}

func TestRunner_Success(t *testing.T) {
	r := newTestRunner(t, process.DefaultConfig())

	res := r.Run(context.Background(), executor.RunRequest{Code: `print("Merhaba dünya")`})

	require.Equal(t, executor.StatusExited, res.Status)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "Merhaba dünya\n", res.Stdout)
	assert.Empty(t, res.Stderr)
	assert.True(t, res.Succeeded())
	assert.Greater(t, res.Duration, time.Duration(0))
}

func TestRunner_FeedsStdin(t *testing.T) {
	r := newTestRunner(t, process.DefaultConfig())

	res := r.Run(context.Background(), executor.RunRequest{
		Code:  "a = input()\nb = input()\nprint(int(a) + int(b))",
		Stdin: "2\n3\n",
	})

	require.True(t, res.Succeeded())
	assert.Equal(t, "5\n", res.Stdout)
}

func TestRunner_ProgramFault(t *testing.T) {
	r := newTestRunner(t, process.DefaultConfig())

	res := r.Run(context.Background(), executor.RunRequest{Code: "print('önce')\nprint(1/0)"})

	require.Equal(t, executor.StatusExited, res.Status)
	assert.NotEqual(t, 0, res.ExitCode)
	assert.Equal(t, "önce\n", res.Stdout)
	assert.Contains(t, res.Stderr, `File "<string>", line 2`)
	assert.Contains(t, res.Stderr, "ZeroDivisionError: division by zero")
}

func TestRunner_Timeout(t *testing.T) {
	cfg := process.DefaultConfig()
	cfg.Timeout = 500 * time.Millisecond
	r := newTestRunner(t, cfg)

	start := time.Now()
	res := r.Run(context.Background(), executor.RunRequest{Code: "while True:\n    pass"})

	assert.Equal(t, executor.StatusTimedOut, res.Status)
	assert.False(t, res.Succeeded())
	assert.Less(t, time.Since(start), 3*time.Second, "run must not outlive the deadline by much")
}

func TestRunner_TimeoutKillsForkedChildren(t *testing.T) {
	cfg := process.DefaultConfig()
	cfg.Timeout = 500 * time.Millisecond
	r := newTestRunner(t, cfg)

	code := strings.Join([]string{
		"import subprocess, sys",
		"subprocess.Popen([sys.executable, '-c', 'import time; time.sleep(30)'])",
		"while True: pass",
	}, "\n")

	start := time.Now()
	res := r.Run(context.Background(), executor.RunRequest{Code: code})

	assert.Equal(t, executor.StatusTimedOut, res.Status)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestRunner_CallerCancel(t *testing.T) {
	r := newTestRunner(t, process.DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	start := time.Now()
	res := r.Run(ctx, executor.RunRequest{Code: "while True:\n    pass"})

	assert.Equal(t, executor.StatusCanceled, res.Status)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRunner_CallerDeadlineIsTimeout(t *testing.T) {
	r := newTestRunner(t, process.DefaultConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	res := r.Run(ctx, executor.RunRequest{Code: "while True:\n    pass"})

	assert.Equal(t, executor.StatusTimedOut, res.Status)
}

func TestRunner_IsolatedMode(t *testing.T) {
	t.Setenv("PYTHONPATH", "/definitely/not/used")
	r := newTestRunner(t, process.DefaultConfig())

	res := r.Run(context.Background(), executor.RunRequest{
		Code: "import sys\nprint(sys.flags.isolated, '/definitely/not/used' in sys.path)",
	})

	require.True(t, res.Succeeded())
	assert.Equal(t, "1 False\n", res.Stdout)
}

func TestRunner_LaunchFailure(t *testing.T) {
	r := process.New(process.Config{PythonBin: "python-does-not-exist-42"}, slog.New(slog.DiscardHandler))

	res := r.Run(context.Background(), executor.RunRequest{Code: "print(1)"})

	assert.Equal(t, executor.StatusLaunchFailed, res.Status)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "python-does-not-exist-42")
}
