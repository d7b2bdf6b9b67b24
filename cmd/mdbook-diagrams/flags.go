package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// rootFlags holds the global flags accepted before any command.
type rootFlags struct {
	quiet   bool
	verbose bool
	version bool
}

// parseRootFlags parses the global flags and returns the remaining arguments.
// Interspersed parsing is off so flags after a command name (for example
// `install --runtime`) pass through to the command untouched.
func parseRootFlags(args []string, stderr io.Writer) (*rootFlags, []string, error) {
	fs := flag.NewFlagSet("mdbook-diagrams", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)

	f := &rootFlags{}
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug detail")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
