// Package book models the mdbook document tree and the preprocessor wire
// protocol. The JSON shapes mirror mdbook's own serialization exactly; a book
// decoded and re-encoded by this package must be accepted by mdbook unchanged.
package book

// ItemKind discriminates the variants of a book item.
type ItemKind int

const (
	// KindChapter is a document unit with content and nested sub-items.
	KindChapter ItemKind = iota
	// KindSeparator is a horizontal rule between chapters in the sidebar.
	KindSeparator
	// KindPartTitle is a heading grouping the chapters that follow it.
	KindPartTitle
)

func (k ItemKind) String() string {
	switch k {
	case KindChapter:
		return "Chapter"
	case KindSeparator:
		return "Separator"
	case KindPartTitle:
		return "PartTitle"
	}
	return "Unknown"
}

// Item is one entry in the book tree: a chapter, a separator, or a part title.
type Item struct {
	Kind      ItemKind
	Chapter   *Chapter // set when Kind is KindChapter
	PartTitle string   // set when Kind is KindPartTitle
}

// ChapterItem wraps a chapter as a tree item.
func ChapterItem(ch *Chapter) Item {
	return Item{Kind: KindChapter, Chapter: ch}
}

// Chapter is a single document unit: its markdown body plus nested sub-items.
//
// Path and SourcePath are nil for draft chapters, which exist in the sidebar
// but have no backing file and produce no build output. Number is nil for
// unnumbered chapters (prefix and suffix chapters).
type Chapter struct {
	Name        string
	Content     string
	Number      []uint32
	SubItems    []Item
	Path        *string
	SourcePath  *string
	ParentNames []string
}

// IsDraft reports whether the chapter has no backing source file.
func (c *Chapter) IsDraft() bool {
	return c.Path == nil
}

// Book is the root of the document tree received from mdbook.
type Book struct {
	Sections []Item
}

// WalkChapters calls fn for every chapter in document order: each chapter is
// visited before its sub-items, which is the order its blocks appear to a
// reader. Separators and part titles are skipped.
func WalkChapters(items []Item, fn func(*Chapter)) {
	for i := range items {
		ch := items[i].Chapter
		if items[i].Kind != KindChapter || ch == nil {
			continue
		}
		fn(ch)
		WalkChapters(ch.SubItems, fn)
	}
}
