package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	diagrams "mdbook-diagrams"
	"mdbook-diagrams/internal/assets"
)

// Environment holds injectable dependencies for testability.
// Stdout carries the processed book JSON during preprocess runs and human
// output for subcommands; everything else goes to Stderr.
type Environment struct {
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *log.Logger
	Renderer diagrams.Renderer // nil selects the mmdc subprocess runner
	Assets   *assets.Bootstrap // mermaid script source for runtime mode
}

// DefaultEnv returns the production environment wired to the OS.
func DefaultEnv(logger *log.Logger) *Environment {
	return &Environment{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
		Assets: assets.NewBootstrap(),
	}
}
