//go:build !unix

package process

import "os/exec"

// killProcessGroupOnCancel keeps exec's default: only the direct child is
// killed on cancellation.
func killProcessGroupOnCancel(cmd *exec.Cmd) {}

// killProcessGroup is a no-op without process groups.
func killProcessGroup(cmd *exec.Cmd) {}
