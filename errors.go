package diagrams

import "errors"

// Sentinel errors for preprocessor runs.
var (
	// ErrNilBook indicates Run was handed no book to process.
	ErrNilBook = errors.New("book cannot be nil")

	// ErrOutputDir indicates the generated diagrams directory could not be
	// created under the book's src tree.
	ErrOutputDir = errors.New("cannot create diagram output directory")
)
