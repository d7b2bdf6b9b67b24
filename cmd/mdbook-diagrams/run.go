package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"

	diagrams "mdbook-diagrams"
	"mdbook-diagrams/internal/book"
)

// preprocessorName is the table this preprocessor reads under
// [preprocessor.<name>] in book.toml.
const preprocessorName = "diagrams"

// supportedMdbookSeries is the mdbook minor release line this preprocessor
// tracks. Other series usually work; skew logs a warning, never a failure.
const supportedMdbookSeries = "0.4"

// run dispatches a CLI invocation and returns the process exit code.
// mdbook invokes the binary with no arguments to preprocess and with
// `supports <renderer>` to probe; the remaining commands are for humans.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		return runPreprocess(ctx, env)
	}

	switch args[0] {
	case "supports":
		return runSupports(args[1:], env)
	case "install":
		return runInstallCmd(ctx, args[1:], env)
	case "doctor":
		return runDoctorCmd(args[1:], env)
	case "version":
		fmt.Fprintln(env.Stdout, "mdbook-diagrams "+Version)
		return ExitSuccess
	case "help":
		runHelp(args[1:], env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// runPreprocess speaks the host protocol: read the [context, book] pair from
// stdin, rewrite the diagram blocks, emit the processed book on stdout.
func runPreprocess(ctx context.Context, env *Environment) int {
	rctx, b, err := book.ParseInput(env.Stdin)
	if err != nil {
		env.Logger.Error("reading preprocessor input", "error", err)
		return exitCodeFor(err)
	}

	warnOnVersionSkew(env.Logger, rctx.MdbookVersion)

	cfg := diagrams.ResolveConfig(rctx.PreprocessorConfig(preprocessorName), env.Logger)

	opts := []diagrams.Option{diagrams.WithLogger(env.Logger)}
	if env.Renderer != nil {
		opts = append(opts, diagrams.WithRenderer(env.Renderer))
	}
	if env.Assets != nil {
		opts = append(opts, diagrams.WithScriptSource(env.Assets.Client, env.Assets.ScriptURL))
	}

	p := diagrams.New(cfg, rctx.Root, rctx.SrcDir(), opts...)
	if err := p.Run(ctx, b); err != nil {
		env.Logger.Error("preprocessing failed", "error", err)
		return exitCodeFor(err)
	}

	if err := book.WriteOutput(env.Stdout, b); err != nil {
		env.Logger.Error("writing preprocessor output", "error", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runSupports handles `supports <renderer>`. Diagram rewriting happens before
// any renderer sees the book, so every renderer is supported; mdbook only
// needs the exit status.
func runSupports(args []string, env *Environment) int {
	if len(args) == 0 {
		fmt.Fprintln(env.Stderr, "Usage: mdbook-diagrams supports <renderer>")
		return ExitUsage
	}
	return ExitSuccess
}

// warnOnVersionSkew logs when mdbook's minor release line differs from the
// one this preprocessor tracks. An unparsable version counts as skew.
func warnOnVersionSkew(logger *log.Logger, version string) {
	if version == "" {
		return
	}
	if semver.MajorMinor("v"+version) != "v"+supportedMdbookSeries {
		logger.Warn("mdbook version differs from the supported series",
			"mdbook", version, "supported", supportedMdbookSeries+".x")
	}
}
