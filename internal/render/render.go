// Package render executes the external diagram renderer as a subprocess.
//
// The renderer contract is the mermaid CLI's: invoked as
// `<command> -i - -o <outputPath>`, it reads diagram source from stdin and
// writes the artifact to outputPath, deriving the output format from the
// path's extension. Success means exit status 0 AND the artifact present on
// disk; everything else is a render failure.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"mdbook-diagrams/internal/fileutil"
)

// Sentinel errors for renderer subprocess failures.
var (
	ErrRenderFailed  = errors.New("renderer failed")
	ErrRenderTimeout = errors.New("renderer timed out")
)

// waitGrace bounds how long Wait blocks on lingering pipe holders after the
// child is killed; the mermaid CLI leaves a browser child attached to stderr.
const waitGrace = 5 * time.Second

// Runner runs one render per call and is safe for concurrent use.
type Runner struct {
	// Command is the renderer executable, resolved via PATH.
	Command string
	// Timeout bounds a single render; zero means no limit.
	Timeout time.Duration
}

// NewRunner returns a Runner for the given executable with the given
// per-render timeout.
func NewRunner(command string, timeout time.Duration) *Runner {
	return &Runner{Command: command, Timeout: timeout}
}

// Render pipes source to the renderer and has it write the artifact to
// outputPath. The returned error's first line identifies the failure; any
// captured stderr follows on later lines.
func (r *Runner) Render(ctx context.Context, source, outputPath string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	// #nosec G204 -- the command is the book's configured renderer; running
	// it is this program's purpose.
	cmd := exec.CommandContext(ctx, r.Command, "-i", "-", "-o", outputPath)
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		terminateTree(cmd)
		return nil
	}
	cmd.WaitDelay = waitGrace

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s exceeded %s", ErrRenderTimeout, r.Command, r.Timeout)
		}
		return r.wrapFailure(err, &stderr)
	}

	if !fileutil.FileExists(outputPath) {
		return fmt.Errorf("%w: %s exited cleanly but produced no artifact at %s",
			ErrRenderFailed, r.Command, outputPath)
	}
	return nil
}

// wrapFailure folds exit status and captured stderr into one diagnosable error.
func (r *Runner) wrapFailure(err error, stderr *bytes.Buffer) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := fmt.Sprintf("%s: %v", r.Command, exitErr)
		if diag := strings.TrimSpace(stderr.String()); diag != "" {
			msg += "\nstderr: " + diag
		}
		return fmt.Errorf("%w: %s", ErrRenderFailed, msg)
	}
	return fmt.Errorf("%w: running %s: %w", ErrRenderFailed, r.Command, err)
}
