package cache

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// Reconcile deletes every entry in the store that is not named in referenced,
// and returns how many were removed. Stale entries accumulate whenever a
// diagram is edited or deleted: its old artifact keeps its fingerprint name
// forever, so nothing would ever reclaim it otherwise.
//
// Reconciliation is cleanup, not correctness. A per-entry deletion failure is
// logged and skipped; only a failure to list the directory is reported, and
// callers are expected to treat even that as non-fatal.
func (s *Store) Reconcile(referenced map[string]bool, logger *log.Logger) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("listing cache directory %s: %w", s.dir, err)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if referenced[name] {
			continue
		}
		if err := os.Remove(s.Path(name)); err != nil {
			logger.Warn("failed to remove stale cache entry", "entry", name, "error", err)
			continue
		}
		logger.Debug("removed stale cache entry", "entry", name)
		removed++
	}
	return removed, nil
}
