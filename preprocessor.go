package diagrams

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"

	"mdbook-diagrams/internal/assets"
	"mdbook-diagrams/internal/book"
	"mdbook-diagrams/internal/cache"
	"mdbook-diagrams/internal/pipeline"
	"mdbook-diagrams/internal/render"
)

// Compile-time interface implementation checks.
var (
	_ Renderer          = (*render.Runner)(nil)
	_ pipeline.Renderer = (Renderer)(nil)
)

// Renderer turns one diagram source into an artifact at outputPath. The
// default implementation invokes the configured mermaid CLI; tests
// substitute stubs via WithRenderer.
type Renderer interface {
	Render(ctx context.Context, source, outputPath string) error
}

// Preprocessor rewrites the diagram blocks of a parsed book. Build one per
// run with New; it is not reused across books.
type Preprocessor struct {
	cfg      Config
	root     string
	srcDir   string
	logger   *log.Logger
	renderer Renderer
	slots    int64
	assets   *assets.Bootstrap
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithLogger routes progress and warnings through logger instead of the
// default stderr logger. The preprocessor protocol owns stdout, so loggers
// must never write there.
func WithLogger(logger *log.Logger) Option {
	return func(p *Preprocessor) {
		p.logger = logger
	}
}

// WithRenderer substitutes the renderer invoked for cache misses.
func WithRenderer(r Renderer) Option {
	return func(p *Preprocessor) {
		p.renderer = r
	}
}

// WithRenderSlots caps concurrent renders; the default is GOMAXPROCS.
// Panics if n <= 0 (programmer error, similar to time.NewTicker).
func WithRenderSlots(n int) Option {
	if n <= 0 {
		panic("diagrams: WithRenderSlots count must be positive")
	}
	return func(p *Preprocessor) {
		p.slots = int64(n)
	}
}

// WithScriptSource overrides where runtime mode fetches the mermaid script,
// for tests and offline mirrors.
func WithScriptSource(client *http.Client, url string) Option {
	return func(p *Preprocessor) {
		p.assets = &assets.Bootstrap{Client: client, ScriptURL: url}
	}
}

// New builds a Preprocessor for a book rooted at root whose chapters live
// under srcDir (the book.src setting, usually "src").
func New(cfg Config, root, srcDir string, opts ...Option) *Preprocessor {
	p := &Preprocessor{
		cfg:    cfg,
		root:   root,
		srcDir: srcDir,
		logger: log.New(os.Stderr),
		slots:  int64(runtime.GOMAXPROCS(0)),
		assets: assets.NewBootstrap(),
	}

	for _, opt := range opts {
		opt(p)
	}

	// Create the subprocess runner if not injected (e.g., by tests).
	if p.renderer == nil {
		p.renderer = render.NewRunner(cfg.Command, cfg.RenderTimeout)
	}

	return p
}

// Run rewrites every diagram block in b according to the configured mode.
// Individual render failures demote to failure notes inside chapter content;
// the returned error is reserved for run-level problems: an unusable output
// directory, a failed script download, or cancellation.
func (p *Preprocessor) Run(ctx context.Context, b *book.Book) error {
	if b == nil {
		return ErrNilBook
	}
	if p.cfg.Mode == ModeRuntime {
		return p.runRuntime(ctx, b)
	}
	return p.runPreRender(ctx, b)
}

func (p *Preprocessor) runRuntime(ctx context.Context, b *book.Book) error {
	if err := p.assets.Ensure(ctx, p.root, p.logger); err != nil {
		return err
	}
	pipeline.RewriteRuntime(b.Sections)
	return nil
}

func (p *Preprocessor) runPreRender(ctx context.Context, b *book.Book) error {
	outDir := filepath.Join(p.root, p.srcDir, "generated", "diagrams")
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	store := cache.NewStore(outDir)

	collector := &pipeline.Collector{
		Store:        store,
		Renderer:     p.renderer,
		Format:       p.cfg.Format,
		Command:      p.cfg.Command,
		CacheEnabled: p.cfg.CacheEnabled,
		Slots:        p.slots,
		Logger:       p.logger,
	}
	edits, err := collector.Collect(ctx, b.Sections)
	if err != nil {
		return err
	}

	// The edit set names every artifact this build references; anything
	// else in the store is stale.
	if p.cfg.CacheEnabled {
		removed, err := store.Reconcile(pipeline.ReferencedArtifacts(edits), p.logger)
		if err != nil {
			p.logger.Warn("cache reconciliation failed", "error", err)
		} else if removed > 0 {
			p.logger.Debug("removed stale cache entries", "count", removed)
		}
	}

	pipeline.ApplyEdits(b.Sections, edits)
	return nil
}
