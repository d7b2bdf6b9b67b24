//go:build windows

package render

import (
	"os/exec"
	"strconv"
)

// setProcessGroup is a no-op on Windows; taskkill handles the tree.
func setProcessGroup(cmd *exec.Cmd) {}

// terminateTree kills the renderer and all its children using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func terminateTree(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	// Best-effort cleanup; exec's default kill provides fallback.
	if err := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(cmd.Process.Pid)).Run(); err != nil {
		_ = cmd.Process.Kill()
	}
}
