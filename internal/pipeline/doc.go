// Package pipeline turns diagram blocks in a book tree into rendered content.
//
// Pre-rendering happens in two phases:
//   - Collect walks the immutable tree, fingerprints every diagram block, and
//     renders cache misses concurrently under a bounded semaphore, producing
//     one edit per block.
//   - Apply splices the edits into chapter bodies back to front, so applying
//     one edit never shifts the offsets of the edits still pending.
//
// Runtime mode bypasses both phases and rewrites blocks for in-browser
// rendering instead.
//
// Subprocess execution lives in the render package and artifact naming and
// reuse in the cache package. This separation keeps the pipeline focused on
// locating blocks and rewriting chapter content.
package pipeline
