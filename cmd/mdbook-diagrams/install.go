package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	diagrams "mdbook-diagrams"
	"mdbook-diagrams/internal/assets"
	"mdbook-diagrams/internal/hints"
	"mdbook-diagrams/internal/tomlutil"
)

// ErrNoBookToml marks install runs outside an mdbook root.
var ErrNoBookToml = errors.New("book.toml not found")

// filePermissions for the rewritten book.toml. rw-r--r--.
const filePermissions = 0o644

// installFlags holds flags for the install command.
type installFlags struct {
	runtime bool
}

// runInstallCmd parses install flags and returns an exit code.
func runInstallCmd(ctx context.Context, args []string, env *Environment) int {
	fs := flag.NewFlagSet("install", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &installFlags{}
	fs.BoolVar(&f.runtime, "runtime", false, "configure in-browser rendering and theme scripts")
	fs.Usage = func() { printInstallUsage(env.Stderr) }
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}

	if err := runInstall(ctx, dir, f, env); err != nil {
		env.Logger.Error("install failed", "error", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runInstall rewires book.toml and, for runtime mode, places the theme assets.
// Re-encoding the TOML drops comments; the command help says so.
func runInstall(ctx context.Context, dir string, f *installFlags, env *Environment) error {
	path := filepath.Join(dir, "book.toml")
	data, err := os.ReadFile(path) // #nosec G304 -- user-chosen book root
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s%s", ErrNoBookToml, path, hints.ForMissingBookToml(dir))
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var root map[string]any
	if err := tomlutil.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	table := ensureTable(ensureTable(root, "preprocessor"), preprocessorName)
	if f.runtime {
		table["render-mode"] = diagrams.ModeRuntime
		html := ensureTable(ensureTable(root, "output"), "html")
		html["additional-js"] = mergeAdditionalJS(html["additional-js"])
		if err := env.Assets.Ensure(ctx, dir, env.Logger); err != nil {
			return err
		}
	}

	out, err := tomlutil.Marshal(root)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, filePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(env.Stdout, "Configured [preprocessor.%s] in %s\n", preprocessorName, path)
	if f.runtime {
		fmt.Fprintln(env.Stdout, "Runtime rendering enabled; theme scripts wired under [output.html].")
	}
	return nil
}

// ensureTable returns m[key] as a table, creating it when absent or mistyped.
func ensureTable(m map[string]any, key string) map[string]any {
	if t, ok := m[key].(map[string]any); ok {
		return t
	}
	t := map[string]any{}
	m[key] = t
	return t
}

// mergeAdditionalJS appends the theme scripts to an existing additional-js
// array, keeping user entries first and skipping scripts already listed.
func mergeAdditionalJS(existing any) []string {
	var merged []string
	seen := map[string]bool{}
	if arr, ok := existing.([]any); ok {
		for _, v := range arr {
			if s, ok := v.(string); ok && !seen[s] {
				merged = append(merged, s)
				seen[s] = true
			}
		}
	}
	for _, script := range assets.AdditionalJS {
		if !seen[script] {
			merged = append(merged, script)
			seen[script] = true
		}
	}
	return merged
}
