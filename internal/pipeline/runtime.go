package pipeline

import "mdbook-diagrams/internal/book"

// runtimeReplacement wraps the captured diagram source for the browser-side
// mermaid script, which renders every <pre class="mermaid"> element on page
// load.
const runtimeReplacement = "<pre class=\"mermaid\">\n${1}\n</pre>"

// RewriteRuntime replaces every diagram block in the book with an element the
// reader's browser renders. No subprocess, cache, or semaphore is involved,
// and drafts are rewritten like any other chapter since no artifact paths are
// produced.
func RewriteRuntime(items []book.Item) {
	book.WalkChapters(items, func(ch *book.Chapter) {
		ch.Content = fencePattern.ReplaceAllString(ch.Content, runtimeReplacement)
	})
}
