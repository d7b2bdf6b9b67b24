package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Sentinel errors for host protocol violations.
var (
	// ErrInvalidInput marks stdin payloads that do not follow the protocol.
	// The host sends a JSON array of exactly two elements: the render context
	// and the book.
	ErrInvalidInput = errors.New("invalid preprocessor input")
	// ErrWriteOutput marks failures emitting the processed book to the host.
	ErrWriteOutput = errors.New("writing preprocessor output failed")
)

// RenderContext is the metadata mdbook sends alongside the book.
type RenderContext struct {
	Root          string     `json:"root"`
	Config        HostConfig `json:"config"`
	Renderer      string     `json:"renderer"`
	MdbookVersion string     `json:"mdbook_version"`
}

// HostConfig is the subset of mdbook's configuration the preprocessor reads.
// Preprocessor tables keep their raw decoded form; option typing is the
// config resolver's concern.
type HostConfig struct {
	Book         BookSection               `json:"book"`
	Preprocessor map[string]map[string]any `json:"preprocessor"`
}

// BookSection mirrors the [book] table of book.toml.
type BookSection struct {
	Src string `json:"src"`
}

// SrcDir returns the book's source directory, defaulting to mdbook's "src".
func (c *RenderContext) SrcDir() string {
	if c.Config.Book.Src == "" {
		return "src"
	}
	return c.Config.Book.Src
}

// PreprocessorConfig returns the raw option table configured under
// [preprocessor.<name>], or nil when absent.
func (c *RenderContext) PreprocessorConfig(name string) map[string]any {
	return c.Config.Preprocessor[name]
}

// ParseInput decodes the [context, book] pair mdbook writes to stdin.
func ParseInput(r io.Reader) (*RenderContext, *Book, error) {
	var payload []json.RawMessage
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(payload) != 2 {
		return nil, nil, fmt.Errorf("%w: expected [context, book], got %d elements", ErrInvalidInput, len(payload))
	}

	var rctx RenderContext
	if err := json.Unmarshal(payload[0], &rctx); err != nil {
		return nil, nil, fmt.Errorf("%w: decoding context: %v", ErrInvalidInput, err)
	}

	var b Book
	if err := json.Unmarshal(payload[1], &b); err != nil {
		return nil, nil, fmt.Errorf("%w: decoding book: %v", ErrInvalidInput, err)
	}
	return &rctx, &b, nil
}

// WriteOutput emits the processed book to the host. Nothing else may be
// written to the same stream; mdbook parses it as a single JSON document.
func WriteOutput(w io.Writer, b *Book) error {
	if err := json.NewEncoder(w).Encode(b); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
