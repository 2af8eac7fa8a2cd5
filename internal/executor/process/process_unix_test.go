//go:build unix

package process_test

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/python-playground/internal/executor"
	"github.com/sakif/python-playground/internal/executor/process"
)

// alive reports whether pid still runs. Zombies waiting for a reaper count
// as gone.
func alive(pid int) bool {
	stat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return false
	}
	rest := string(stat[strings.LastIndexByte(string(stat), ')')+1:])
	fields := strings.Fields(rest)
	return len(fields) > 0 && fields[0] != "Z"
}

func TestRunner_LeftoverChildHoldingStdout(t *testing.T) {
	if _, err := os.Stat("/proc/self/stat"); err != nil {
		t.Skip("procfs not available")
	}
	r := newTestRunner(t, process.DefaultConfig())

	code := strings.Join([]string{
		"import subprocess, sys",
		"child = subprocess.Popen([sys.executable, '-c', 'import time; time.sleep(20)'])",
		"print(child.pid)",
		"print('bitti')",
	}, "\n")

	start := time.Now()
	res := r.Run(context.Background(), executor.RunRequest{Code: code})

	require.Equal(t, executor.StatusExited, res.Status, "err: %v", res.Err)
	assert.Equal(t, 0, res.ExitCode)
	assert.True(t, res.Succeeded())
	assert.Less(t, time.Since(start), 5*time.Second)

	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "bitti", lines[1])

	pid, err := strconv.Atoi(lines[0])
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return !alive(pid) }, 2*time.Second, 20*time.Millisecond,
		"child %d outlived the run", pid)
}
