package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// pflag already printed the parse error and usage to stderr.
	flags, args, err := parseRootFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(ExitUsage)
	}
	if flags.version {
		fmt.Println("mdbook-diagrams " + Version)
		return
	}

	logger := newLogger(os.Stderr, flags)

	// Configure GOMAXPROCS from container CPU quotas; the render slot count
	// follows it. Error ignored: maxprocs.Set only fails if the GOMAXPROCS
	// env var is invalid, in which case Go runtime defaults apply and the
	// program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(logger.Debugf))

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, args, DefaultEnv(logger))
	stop()
	os.Exit(code)
}

// newLogger builds the stderr logger. Stdout belongs to the host protocol,
// so nothing may ever log there.
func newLogger(w io.Writer, flags *rootFlags) *log.Logger {
	level := log.InfoLevel
	switch {
	case flags.quiet:
		level = log.ErrorLevel
	case flags.verbose:
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "mdbook-diagrams",
		Level:  level,
	})
}
