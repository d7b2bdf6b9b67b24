package main

import (
	"errors"
	"os"

	diagrams "mdbook-diagrams"
	"mdbook-diagrams/internal/assets"
	"mdbook-diagrams/internal/book"
)

// Exit codes for the mdbook-diagrams CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
// Individual diagram failures never fail the run; they demote to failure notes
// in the chapter content, so ExitSuccess covers runs with broken diagrams.
const (
	ExitSuccess  = 0 // Clean run, including runs with per-diagram failures
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags or arguments
	ExitProtocol = 3 // Malformed stdin payload or stdout emit failure
	ExitIO       = 4 // Missing files, unwritable directories, failed downloads
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Host protocol violations (exit 3)
	if errors.Is(err, book.ErrInvalidInput) ||
		errors.Is(err, book.ErrMalformedBook) ||
		errors.Is(err, book.ErrWriteOutput) {
		return ExitProtocol
	}

	// I/O errors (exit 4)
	if errors.Is(err, diagrams.ErrOutputDir) ||
		errors.Is(err, assets.ErrDownload) ||
		errors.Is(err, ErrNoBookToml) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}
