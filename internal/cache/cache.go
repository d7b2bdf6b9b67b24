// Package cache implements the content-addressed artifact store backing
// diagram rendering. Every rendered artifact is named by a fingerprint of the
// inputs that produced it, so identical diagrams are rendered once and reused
// until their source, output format, or renderer changes.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"mdbook-diagrams/internal/fileutil"
)

// Fingerprint derives the cache identity of a render request from the diagram
// source, the output format, and the renderer command. Each field is hashed
// with a length prefix so field boundaries cannot alias: ("ab", "c") and
// ("a", "bc") produce different digests. The result is 64 lowercase hex chars,
// stable across runs and platforms.
func Fingerprint(source, format, command string) string {
	h := sha256.New()
	for _, field := range []string{source, format, command} {
		fmt.Fprintf(h, "%d:", len(field))
		io.WriteString(h, field)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// EntryName returns the artifact filename for a fingerprint in the given format.
func EntryName(fingerprint, format string) string {
	return fingerprint + "." + format
}

// Store is a flat directory of rendered artifacts keyed by entry name.
// It does not create the directory; callers decide when creation failures
// are fatal.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory the store manages.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the on-disk location of an entry, whether or not it exists.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Exists reports whether an artifact for name is present.
func (s *Store) Exists(name string) bool {
	return fileutil.FileExists(s.Path(name))
}

// tempSeq disambiguates staging paths when the same entry is rendered twice
// concurrently (duplicate diagrams in one run both miss the cache).
var tempSeq atomic.Int64

// TempPath returns a unique staging location for name. The entry's extension
// stays at the end of the temp name because the renderer derives the output
// type from it.
func (s *Store) TempPath(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return filepath.Join(s.dir, fmt.Sprintf("%s.tmp%d-%d%s", base, os.Getpid(), tempSeq.Add(1), ext))
}

// Promote moves a staged artifact into place as the entry for name. Rename is
// atomic within the store directory, so readers never observe a partial file.
func (s *Store) Promote(tempPath, name string) error {
	if err := os.Rename(tempPath, s.Path(name)); err != nil {
		return fmt.Errorf("promoting cache entry %s: %w", name, err)
	}
	return nil
}

// Discard removes a staged artifact after a failed render. Missing files are
// fine; the renderer may have died before creating anything.
func (s *Store) Discard(tempPath string) {
	_ = os.Remove(tempPath)
}
