package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdbook-diagrams [command] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run without a command to preprocess a book: mdbook writes the")
	fmt.Fprintln(w, "[context, book] JSON pair to stdin and reads the processed book")
	fmt.Fprintln(w, "from stdout.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  supports <renderer>   Exit 0 when the mdbook renderer is supported")
	fmt.Fprintln(w, "  install [dir]         Configure book.toml for this preprocessor")
	fmt.Fprintln(w, "  doctor [dir]          Diagnose the rendering environment")
	fmt.Fprintln(w, "  version               Show version information")
	fmt.Fprintln(w, "  help                  Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global flags:")
	fmt.Fprintln(w, "  -q, --quiet           Only show errors")
	fmt.Fprintln(w, "  -v, --verbose         Show debug detail")
	fmt.Fprintln(w, "      --version         Print version and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdbook-diagrams help <command>' for details on a specific command.")
}

// printInstallUsage prints usage for the install command.
func printInstallUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdbook-diagrams install [dir] [--runtime]")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Add [preprocessor.%s] to the book.toml in dir (default \".\").\n", preprocessorName)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --runtime    Render in the reader's browser instead: set")
	fmt.Fprintln(w, "                   render-mode, wire the theme scripts under")
	fmt.Fprintln(w, "                   [output.html], download mermaid into theme/")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "book.toml is re-encoded on write; comments in it are not preserved.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdbook-diagrams doctor [dir] [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the rendering environment: the renderer on PATH, book.toml")
	fmt.Fprintln(w, "configuration, and render slots.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json    Emit machine-readable JSON instead of the checklist")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "supports":
		fmt.Fprintln(env.Stdout, "Usage: mdbook-diagrams supports <renderer>")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Exit 0 when the named mdbook renderer is supported (all are).")
		fmt.Fprintln(env.Stdout, "mdbook calls this before preprocessing; it is not for humans.")
	case "install":
		printInstallUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdbook-diagrams version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdbook-diagrams help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
