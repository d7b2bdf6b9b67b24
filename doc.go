// Package diagrams is an mdbook preprocessor that turns fenced mermaid
// blocks into rendered diagrams.
//
// # Quick Start
//
// Parse the [ctx, book] pair mdbook writes to stdin, resolve the
// preprocessor's configuration table, and run:
//
//	rc, b, err := book.ParseInput(os.Stdin)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg := diagrams.ResolveConfig(rc.PreprocessorConfig("diagrams"), logger)
//	p := diagrams.New(cfg, rc.Root, rc.SrcDir(), diagrams.WithLogger(logger))
//	if err := p.Run(ctx, b); err != nil {
//	    log.Fatal(err)
//	}
//	book.WriteOutput(os.Stdout, b)
//
// # Rendering Modes
//
// Pre-render mode (the default) runs the mermaid CLI once per diagram at
// build time and replaces each block with an image link. Artifacts land in
// <src>/generated/diagrams, named by a fingerprint of the diagram source,
// the output format, and the renderer command, so an unchanged diagram is
// never rendered twice and a changed one can never be served stale.
//
// Runtime mode skips rendering entirely: blocks become <pre class="mermaid">
// elements and the mermaid script, placed into the book's theme directory on
// first use, renders them in the reader's browser.
//
// # Failure Containment
//
// One broken diagram never fails a build. A block whose render fails keeps
// its source, preceded by an HTML comment naming the error, and every other
// block proceeds. Run only returns an error for run-level problems: an
// unusable output directory, a failed script download, or cancellation.
//
// # Configuration
//
// All keys live under [preprocessor.diagrams] in book.toml:
//
//	[preprocessor.diagrams]
//	render-mode = "pre-render"  # or "runtime"
//	mmdc-cmd = "mmdc"           # renderer executable
//	output-format = "svg"       # or "png"
//	enable-cache = true         # reuse and reconcile artifacts
//	render-timeout = "2m"       # per-diagram limit, "0" disables
//
// Invalid values warn and fall back to their defaults; configuration alone
// cannot break a build.
//
// # Concurrency
//
// Cache misses render concurrently under a semaphore sized to GOMAXPROCS
// (override with WithRenderSlots). Cache hits bypass the semaphore, so a
// fully cached book finishes without spawning a single subprocess.
package diagrams
