//go:build unix

package process

import (
	"os/exec"
	"syscall"
)

// killProcessGroupOnCancel starts the child in its own process group and
// makes context cancellation kill the whole group.
func killProcessGroupOnCancel(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}

// killProcessGroup SIGKILLs whatever is left in the child's group. The
// group id is the child's pid, which stays reserved while any member of
// the group is alive, so this cannot hit an unrelated process.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL) // ESRCH when the group is empty
}
