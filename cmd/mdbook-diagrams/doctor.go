package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	diagrams "mdbook-diagrams"
	"mdbook-diagrams/internal/fileutil"
	"mdbook-diagrams/internal/hints"
	"mdbook-diagrams/internal/tomlutil"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Renderer rendererInfo `json:"renderer"`
	Book     bookInfo     `json:"book"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// rendererInfo holds diagram renderer detection results.
type rendererInfo struct {
	Command string `json:"command"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// bookInfo holds book.toml detection results.
type bookInfo struct {
	TomlFound  bool   `json:"book_toml_found"`
	Configured bool   `json:"preprocessor_configured"`
	RenderMode string `json:"render_mode,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	RenderSlots  int  `json:"render_slots"`
	TempWritable bool `json:"temp_writable"`
	Container    bool `json:"container"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	dir := "."
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
			continue
		}
		dir = arg
	}

	result := runDoctor(dir)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(env.Stderr, "Error encoding JSON: %v\n", err)
			return ExitGeneral
		}
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks for the book rooted at dir.
func runDoctor(dir string) *doctorResult {
	result := &doctorResult{}

	checkBook(dir, result)
	checkRenderer(result)
	checkSystem(result)

	switch {
	case len(result.Errors) > 0:
		result.Status = "errors"
	case len(result.Warnings) > 0:
		result.Status = "warnings"
	default:
		result.Status = "ready"
	}
	return result
}

// checkBook probes book.toml and resolves the configured renderer command.
func checkBook(dir string, result *doctorResult) {
	result.Renderer.Command = diagrams.DefaultCommand

	path := filepath.Join(dir, "book.toml")
	if !fileutil.FileExists(path) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("book.toml not found in %s; run from the book root or pass the directory", dir))
		return
	}
	result.Book.TomlFound = true

	data, err := os.ReadFile(path) // #nosec G304 -- user-chosen book root
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("book.toml unreadable: %v", err))
		return
	}

	var cfg struct {
		Preprocessor map[string]map[string]any `toml:"preprocessor"`
	}
	if err := tomlutil.Unmarshal(data, &cfg); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("book.toml does not parse: %v", err))
		return
	}

	table, ok := cfg.Preprocessor[preprocessorName]
	if !ok {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("[preprocessor.%s] missing from book.toml; run mdbook-diagrams install", preprocessorName))
		return
	}
	result.Book.Configured = true

	if mode, ok := table["render-mode"].(string); ok {
		result.Book.RenderMode = mode
	}
	if command, ok := table["mmdc-cmd"].(string); ok && command != "" {
		result.Renderer.Command = command
	}
}

// checkRenderer verifies the diagram renderer is installed and responsive.
// Runtime mode renders in the reader's browser, so a missing renderer only
// warns there.
func checkRenderer(result *doctorResult) {
	path, err := exec.LookPath(result.Renderer.Command)
	if err != nil {
		msg := fmt.Sprintf("renderer %q not found on PATH", result.Renderer.Command)
		switch {
		case result.Book.RenderMode == diagrams.ModeRuntime:
			result.Warnings = append(result.Warnings, msg+" (unused in runtime mode)")
		case result.Renderer.Command == diagrams.DefaultCommand:
			result.Errors = append(result.Errors,
				msg+"; install with: npm install -g @mermaid-js/mermaid-cli")
		default:
			result.Errors = append(result.Errors, msg)
		}
		return
	}
	result.Renderer.Found = true
	result.Renderer.Path = path

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- probing the configured renderer
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("renderer found but --version failed: %v", err))
		return
	}
	result.Renderer.Version = strings.TrimSpace(string(out))
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	result.System.RenderSlots = runtime.GOMAXPROCS(0)

	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "mdbook-diagrams-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}

	if hints.IsInContainer() {
		result.System.Container = true
		result.Warnings = append(result.Warnings,
			"container detected; mmdc's Chromium may need a puppeteer config with the no-sandbox flag")
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mdbook-diagrams doctor")
	fmt.Fprintln(w)

	// Renderer section
	fmt.Fprintln(w, "Renderer")
	if r.Renderer.Found {
		fmt.Fprintf(w, "  [OK] %s found at %s\n", r.Renderer.Command, r.Renderer.Path)
		if r.Renderer.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Renderer.Version)
		}
	} else {
		fmt.Fprintf(w, "  [ERROR] %s not found\n", r.Renderer.Command)
	}
	fmt.Fprintln(w)

	// Book section
	fmt.Fprintln(w, "Book")
	if r.Book.TomlFound {
		fmt.Fprintln(w, "  [OK] book.toml: found")
		if r.Book.Configured {
			fmt.Fprintf(w, "  [OK] [preprocessor.%s]: configured\n", preprocessorName)
		} else {
			fmt.Fprintf(w, "  [WARN] [preprocessor.%s]: missing\n", preprocessorName)
		}
		if r.Book.RenderMode != "" {
			fmt.Fprintf(w, "  [OK] render-mode: %s\n", r.Book.RenderMode)
		}
	} else {
		fmt.Fprintln(w, "  [WARN] book.toml: not found")
	}
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	fmt.Fprintf(w, "  [OK] Render slots: %d\n", r.System.RenderSlots)
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.Container {
		fmt.Fprintln(w, "  [WARN] Container: detected")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to render")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
