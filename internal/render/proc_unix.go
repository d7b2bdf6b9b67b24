//go:build !windows

package render

import (
	"os/exec"
	"syscall"
)

// setProcessGroup gives the renderer its own process group so terminateTree
// can reach its children (the mermaid CLI spawns a headless browser).
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateTree kills the renderer and all its children by sending SIGKILL
// to the process group (negative PID).
func terminateTree(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	// Best-effort cleanup; fall back to killing the immediate child when the
	// group is already gone.
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
}
