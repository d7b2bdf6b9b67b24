package pipeline

import (
	"sort"

	"mdbook-diagrams/internal/book"
)

// ApplyEdits splices the collected edits into their chapter bodies. Edits are
// grouped per chapter path and applied highest offset first: replacing a
// range shifts everything after it, so working back to front keeps the
// remaining ranges valid without any offset bookkeeping.
//
// Chapter content must be unchanged since the scan that produced the edits;
// the collect phase never mutates the tree, so offsets stay valid between the
// two phases.
func ApplyEdits(items []book.Item, edits []Edit) {
	if len(edits) == 0 {
		return
	}

	byChapter := make(map[string][]Edit, len(edits))
	for _, e := range edits {
		byChapter[e.ChapterPath] = append(byChapter[e.ChapterPath], e)
	}
	for path, chapterEdits := range byChapter {
		byChapter[path] = orderForSplicing(chapterEdits)
	}

	book.WalkChapters(items, func(ch *book.Chapter) {
		if ch.IsDraft() {
			return
		}
		for _, e := range byChapter[*ch.Path] {
			ch.Content = ch.Content[:e.Start] + e.Replacement + ch.Content[e.End:]
		}
	})
}

// orderForSplicing sorts edits by descending start offset and collapses
// duplicate ranges. A path listed twice in the book is scanned once per
// listing, and applying the identical edit twice would splice into
// already-rewritten content.
func orderForSplicing(edits []Edit) []Edit {
	sort.Slice(edits, func(i, j int) bool {
		if edits[i].Start != edits[j].Start {
			return edits[i].Start > edits[j].Start
		}
		return edits[i].End > edits[j].End
	})

	ordered := edits[:0]
	for _, e := range edits {
		if n := len(ordered); n > 0 && ordered[n-1].Start == e.Start && ordered[n-1].End == e.End {
			continue
		}
		ordered = append(ordered, e)
	}
	return ordered
}
