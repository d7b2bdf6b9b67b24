package pipeline

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"mdbook-diagrams/internal/book"
	"mdbook-diagrams/internal/cache"
	"mdbook-diagrams/internal/hints"
	"mdbook-diagrams/internal/render"
)

// Renderer produces one artifact per call. The production implementation is
// render.Runner; tests substitute stubs.
type Renderer interface {
	Render(ctx context.Context, source, outputPath string) error
}

// Edit is one pending content replacement in a chapter body. Start and End
// are byte offsets into the chapter content as it was scanned.
type Edit struct {
	ChapterPath string
	Start       int
	End         int
	Replacement string
	// ArtifactName is the cache entry the replacement links to; empty for
	// failure notes, which reference nothing.
	ArtifactName string
}

// Collector renders every diagram block in a book and produces the edit set
// for the apply phase. It reads the tree but never mutates it, so offsets in
// the produced edits stay valid until ApplyEdits runs.
//
// A Collector is built per run; hint deduplication resets with it.
type Collector struct {
	Store        *cache.Store
	Renderer     Renderer
	Format       string
	Command      string
	CacheEnabled bool
	Slots        int64
	Logger       *log.Logger

	hintOnce sync.Once
}

// locatedBlock ties a scanned block to the chapter it came from.
type locatedBlock struct {
	chapterPath string
	block       Block
}

// Collect scans every non-draft chapter and resolves each diagram block to an
// edit: an image link for rendered or cached artifacts, a failure note for
// blocks whose render failed. Render failures never fail the collect; the
// only error returned is run-level context cancellation.
//
// Cache hits bypass the semaphore entirely, so a fully cached book spawns no
// subprocesses and finishes regardless of slot count.
func (c *Collector) Collect(ctx context.Context, items []book.Item) ([]Edit, error) {
	var located []locatedBlock
	book.WalkChapters(items, func(ch *book.Chapter) {
		if ch.IsDraft() {
			return
		}
		for _, b := range ScanBlocks(ch.Content) {
			located = append(located, locatedBlock{chapterPath: *ch.Path, block: b})
		}
	})
	if len(located) == 0 {
		return nil, nil
	}

	slots := c.Slots
	if slots < 1 {
		slots = 1
	}
	sem := semaphore.NewWeighted(slots)

	// One result slot per block keeps edits in scan order no matter which
	// render finishes first.
	edits := make([]Edit, len(located))
	g, gctx := errgroup.WithContext(ctx)
	for i, loc := range located {
		i, loc := i, loc
		g.Go(func() error {
			edit, err := c.collectOne(gctx, sem, loc)
			if err != nil {
				return err
			}
			edits[i] = edit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return edits, nil
}

func (c *Collector) collectOne(ctx context.Context, sem *semaphore.Weighted, loc locatedBlock) (Edit, error) {
	name := cache.EntryName(cache.Fingerprint(loc.block.Source, c.Format, c.Command), c.Format)
	edit := Edit{
		ChapterPath: loc.chapterPath,
		Start:       loc.block.Start,
		End:         loc.block.End,
	}

	if c.CacheEnabled && c.Store.Exists(name) {
		c.Logger.Debug("cache hit", "chapter", loc.chapterPath, "artifact", name)
		edit.Replacement = imageLink(loc.chapterPath, name)
		edit.ArtifactName = name
		return edit, nil
	}

	if err := sem.Acquire(ctx, 1); err != nil {
		// Acquire only fails on context cancellation; the run is ending.
		return Edit{}, err
	}
	err := c.renderArtifact(ctx, loc.block.Source, name)
	sem.Release(1)

	if err != nil {
		if ctx.Err() != nil {
			return Edit{}, ctx.Err()
		}
		c.Logger.Error("diagram render failed", "chapter", loc.chapterPath, "error", err)
		c.adviseOnce(err)
		edit.Replacement = failureNote(err, loc.block.Original)
		return edit, nil
	}

	c.Logger.Debug("rendered diagram", "chapter", loc.chapterPath, "artifact", name)
	edit.Replacement = imageLink(loc.chapterPath, name)
	edit.ArtifactName = name
	return edit, nil
}

// renderArtifact stages the render in a temp file and promotes it only after
// the renderer succeeds, so a failed render never leaves a partial file that
// a later run would mistake for a cache entry.
func (c *Collector) renderArtifact(ctx context.Context, source, name string) error {
	temp := c.Store.TempPath(name)
	if err := c.Renderer.Render(ctx, source, temp); err != nil {
		c.Store.Discard(temp)
		return err
	}
	return c.Store.Promote(temp, name)
}

// adviseOnce logs an actionable hint for systemic failures the first time one
// appears; repeating it for every block would drown the log.
func (c *Collector) adviseOnce(err error) {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		c.hintOnce.Do(func() {
			c.Logger.Warn("renderer is not installed" + hints.ForRendererNotFound(c.Command))
		})
	case errors.Is(err, render.ErrRenderTimeout):
		c.hintOnce.Do(func() {
			c.Logger.Warn("renders are timing out" + hints.ForRenderTimeout())
		})
	case errors.Is(err, render.ErrRenderFailed):
		// Containers are the usual culprit: mmdc's Chromium refuses to
		// sandbox as root. The hint is empty outside containers and CI.
		if hint := hints.ForPuppeteerSandbox(); hint != "" {
			c.hintOnce.Do(func() {
				c.Logger.Warn("renders are failing" + hint)
			})
		}
	}
}

// ReferencedArtifacts returns the set of artifact names the edit set links
// to, the reference universe for cache reconciliation. Failure notes
// contribute nothing.
func ReferencedArtifacts(edits []Edit) map[string]bool {
	refs := make(map[string]bool, len(edits))
	for _, e := range edits {
		if e.ArtifactName != "" {
			refs[e.ArtifactName] = true
		}
	}
	return refs
}

// imageLink builds the markdown image reference from a chapter to an artifact
// in the generated diagrams directory. Chapters nest below the book src dir,
// so the link climbs one level per path separator before descending.
// Backslashes are normalized first so Windows-style chapter paths count the
// same depth.
func imageLink(chapterPath, artifactName string) string {
	depth := strings.Count(strings.ReplaceAll(chapterPath, "\\", "/"), "/")
	var b strings.Builder
	b.WriteString("![diagram](./")
	for i := 0; i < depth; i++ {
		b.WriteString("../")
	}
	b.WriteString("generated/diagrams/")
	b.WriteString(artifactName)
	b.WriteString(")")
	return b.String()
}

// failureNote keeps the author's diagram source in place behind a diagnostic
// comment, so one broken diagram never breaks the book build.
func failureNote(err error, original string) string {
	line := err.Error()
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if line == "" {
		line = "Unknown error"
	}
	return "<!-- Error generating diagram: " + line + " -->\n" + original
}
