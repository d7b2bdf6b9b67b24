package render_test

// Notes:
// - These tests re-exec the test binary as a fake renderer, selected through
//   the MDBOOK_DIAGRAMS_TEST_RENDERER environment variable. Tests that spawn
//   the helper use t.Setenv and therefore cannot run in parallel.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mdbook-diagrams/internal/render"
)

func TestMain(m *testing.M) {
	if mode := os.Getenv("MDBOOK_DIAGRAMS_TEST_RENDERER"); mode != "" {
		os.Exit(fakeRender(mode))
	}
	os.Exit(m.Run())
}

// fakeRender emulates the mermaid CLI contract: `-i - -o <path>`, diagram
// source on stdin, artifact written to the -o path.
func fakeRender(mode string) int {
	args := os.Args[1:]
	if len(args) < 4 || args[0] != "-i" || args[1] != "-" || args[2] != "-o" {
		fmt.Fprintf(os.Stderr, "fake renderer: unexpected args %v\n", args)
		return 2
	}
	out := args[3]

	switch mode {
	case "ok":
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fake renderer: reading stdin:", err)
			return 1
		}
		if err := os.WriteFile(out, append([]byte("rendered:"), src...), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "fake renderer: writing artifact:", err)
			return 1
		}
		return 0
	case "fail":
		_, _ = io.Copy(io.Discard, os.Stdin)
		fmt.Fprintln(os.Stderr, "syntax error in graph near line 3")
		return 1
	case "no-artifact":
		_, _ = io.Copy(io.Discard, os.Stdin)
		return 0
	case "hang":
		time.Sleep(time.Minute)
		return 0
	}
	fmt.Fprintf(os.Stderr, "fake renderer: unknown mode %q\n", mode)
	return 2
}

// helperRunner points a Runner at this test binary in the given mode.
func helperRunner(t *testing.T, mode string, timeout time.Duration) *render.Runner {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("locating test binary: %v", err)
	}
	t.Setenv("MDBOOK_DIAGRAMS_TEST_RENDERER", mode)
	return render.NewRunner(exe, timeout)
}

// ---------------------------------------------------------------------------
// TestRender_Success - Happy path pipes stdin and writes the artifact
// ---------------------------------------------------------------------------

func TestRender_Success(t *testing.T) {
	runner := helperRunner(t, "ok", 30*time.Second)
	out := filepath.Join(t.TempDir(), "diagram.svg")

	if err := runner.Render(context.Background(), "graph TD;\nA-->B", out); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if got, want := string(data), "rendered:graph TD;\nA-->B"; got != want {
		t.Errorf("artifact = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestRender_NonzeroExit - Exit status and stderr surface in the error
// ---------------------------------------------------------------------------

func TestRender_NonzeroExit(t *testing.T) {
	runner := helperRunner(t, "fail", 30*time.Second)
	out := filepath.Join(t.TempDir(), "diagram.svg")

	err := runner.Render(context.Background(), "graph TD", out)
	if err == nil {
		t.Fatal("Render() expected error, got nil")
	}
	if !errors.Is(err, render.ErrRenderFailed) {
		t.Errorf("errors.Is(err, ErrRenderFailed) = false, got: %v", err)
	}

	msg := err.Error()
	firstLine, rest, _ := strings.Cut(msg, "\n")
	if !strings.Contains(firstLine, "exit status 1") {
		t.Errorf("first line %q should carry the exit status", firstLine)
	}
	if !strings.Contains(rest, "syntax error in graph near line 3") {
		t.Errorf("error should carry captured stderr, got: %q", msg)
	}

	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("failed render must not leave an artifact")
	}
}

// ---------------------------------------------------------------------------
// TestRender_MissingArtifact - Clean exit without output is still a failure
// ---------------------------------------------------------------------------

func TestRender_MissingArtifact(t *testing.T) {
	runner := helperRunner(t, "no-artifact", 30*time.Second)
	out := filepath.Join(t.TempDir(), "diagram.svg")

	err := runner.Render(context.Background(), "graph TD", out)
	if !errors.Is(err, render.ErrRenderFailed) {
		t.Fatalf("errors.Is(err, ErrRenderFailed) = false, got: %v", err)
	}
	if !strings.Contains(err.Error(), "no artifact") {
		t.Errorf("error should name the missing artifact, got: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestRender_CommandNotFound - Spawn failures are render failures
// ---------------------------------------------------------------------------

func TestRender_CommandNotFound(t *testing.T) {
	t.Parallel()

	runner := render.NewRunner(filepath.Join(t.TempDir(), "definitely-missing"), time.Second)
	err := runner.Render(context.Background(), "graph TD", filepath.Join(t.TempDir(), "out.svg"))

	if !errors.Is(err, render.ErrRenderFailed) {
		t.Fatalf("errors.Is(err, ErrRenderFailed) = false, got: %v", err)
	}

	firstLine, _, _ := strings.Cut(err.Error(), "\n")
	if !strings.Contains(firstLine, "definitely-missing") {
		t.Errorf("first line %q should name the command", firstLine)
	}
}

// ---------------------------------------------------------------------------
// TestRender_Timeout - Slow renders are killed and reported as timeouts
// ---------------------------------------------------------------------------

func TestRender_Timeout(t *testing.T) {
	runner := helperRunner(t, "hang", 100*time.Millisecond)
	out := filepath.Join(t.TempDir(), "diagram.svg")

	start := time.Now()
	err := runner.Render(context.Background(), "graph TD", out)
	elapsed := time.Since(start)

	if !errors.Is(err, render.ErrRenderTimeout) {
		t.Fatalf("errors.Is(err, ErrRenderTimeout) = false, got: %v", err)
	}
	if elapsed > 10*time.Second {
		t.Errorf("Render took %v; the hung child was not killed promptly", elapsed)
	}
}

// ---------------------------------------------------------------------------
// TestRender_CanceledContext - Run-level cancellation aborts before spawning
// ---------------------------------------------------------------------------

func TestRender_CanceledContext(t *testing.T) {
	runner := helperRunner(t, "ok", 30*time.Second)
	out := filepath.Join(t.TempDir(), "diagram.svg")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.Render(ctx, "graph TD", out)
	if err == nil {
		t.Fatal("Render() expected error for canceled context, got nil")
	}
	if errors.Is(err, render.ErrRenderTimeout) {
		t.Errorf("cancellation must not be reported as a timeout: %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("canceled render must not leave an artifact")
	}
}
