// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"mdbook-diagrams/internal/fileutil"
)

// ForRendererNotFound returns hints for a renderer executable missing from PATH.
// The stock mermaid CLI gets its install command; custom commands get a PATH check.
func ForRendererNotFound(command string) string {
	if command == "mmdc" || strings.HasSuffix(command, "/mmdc") {
		return format("install the mermaid CLI: npm install -g @mermaid-js/mermaid-cli")
	}
	return format("check that " + command + " is installed and on PATH")
}

// ForRenderTimeout returns a hint about raising the per-diagram time limit.
func ForRenderTimeout() string {
	return format("slow diagrams may need a larger render-timeout under [preprocessor.diagrams]")
}

// ForPuppeteerSandbox returns hints for renderer failures in containers.
// The mermaid CLI drives a Chromium that refuses to sandbox as root.
func ForPuppeteerSandbox() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if inCI || IsInContainer() {
		hints = append(hints, "pass a puppeteer config with --puppeteerConfigFile via mmdc-cmd")
		hints = append(hints, "containers often need the no-sandbox Chromium flag")
	}

	return formatHints(hints)
}

// ForMissingBookToml returns hints for install/doctor runs outside a book root.
func ForMissingBookToml(dir string) string {
	return format("run from the book root (the directory containing book.toml), not " + dir)
}

// ForScriptDownload returns hints for runtime-mode asset download failures.
func ForScriptDownload() string {
	return format("check network access, or place mermaid.min.js in theme/ manually")
}

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
