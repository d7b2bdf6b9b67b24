package book_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"mdbook-diagrams/internal/book"
)

func strPtr(s string) *string { return &s }

// sampleBookJSON mirrors mdbook's own serialization of a small book: a prefix
// chapter, a separator, a part title, and a numbered chapter with one nested
// sub-chapter.
const sampleBookJSON = `{
  "sections": [
    {"Chapter": {"name": "Introduction", "content": "# Introduction\n", "number": null, "sub_items": [], "path": "intro.md", "source_path": "intro.md", "parent_names": []}},
    "Separator",
    {"PartTitle": "User Guide"},
    {"Chapter": {"name": "Diagrams", "content": "Some ` + "```mermaid" + `\n", "number": [1], "sub_items": [
      {"Chapter": {"name": "Advanced", "content": "nested", "number": [1, 1], "sub_items": [], "path": "guide/advanced.md", "source_path": "guide/advanced.md", "parent_names": ["Diagrams"]}}
    ], "path": "guide/diagrams.md", "source_path": "guide/diagrams.md", "parent_names": []}}
  ],
  "__non_exhaustive": null
}`

// ---------------------------------------------------------------------------
// TestBookDecode - Decoding mdbook's book JSON
// ---------------------------------------------------------------------------

func TestBookDecode(t *testing.T) {
	t.Parallel()

	var b book.Book
	if err := json.Unmarshal([]byte(sampleBookJSON), &b); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(b.Sections) != 4 {
		t.Fatalf("len(Sections) = %d, want 4", len(b.Sections))
	}

	intro := b.Sections[0]
	if intro.Kind != book.KindChapter || intro.Chapter == nil {
		t.Fatalf("section 0 = %+v, want chapter", intro)
	}
	if intro.Chapter.Name != "Introduction" {
		t.Errorf("chapter name = %q, want %q", intro.Chapter.Name, "Introduction")
	}
	if intro.Chapter.Number != nil {
		t.Errorf("prefix chapter number = %v, want nil", intro.Chapter.Number)
	}
	if intro.Chapter.SubItems == nil || len(intro.Chapter.SubItems) != 0 {
		t.Errorf("sub_items = %v, want empty non-nil handling", intro.Chapter.SubItems)
	}
	if intro.Chapter.Path == nil || *intro.Chapter.Path != "intro.md" {
		t.Errorf("path = %v, want intro.md", intro.Chapter.Path)
	}

	if b.Sections[1].Kind != book.KindSeparator {
		t.Errorf("section 1 kind = %v, want Separator", b.Sections[1].Kind)
	}
	if b.Sections[2].Kind != book.KindPartTitle || b.Sections[2].PartTitle != "User Guide" {
		t.Errorf("section 2 = %+v, want PartTitle %q", b.Sections[2], "User Guide")
	}

	guide := b.Sections[3].Chapter
	if guide == nil {
		t.Fatal("section 3 missing chapter")
	}
	if !reflect.DeepEqual(guide.Number, []uint32{1}) {
		t.Errorf("number = %v, want [1]", guide.Number)
	}
	if len(guide.SubItems) != 1 {
		t.Fatalf("len(sub_items) = %d, want 1", len(guide.SubItems))
	}
	nested := guide.SubItems[0].Chapter
	if nested == nil || nested.Name != "Advanced" {
		t.Fatalf("nested chapter = %+v, want Advanced", guide.SubItems[0])
	}
	if !reflect.DeepEqual(nested.ParentNames, []string{"Diagrams"}) {
		t.Errorf("nested parent_names = %v, want [Diagrams]", nested.ParentNames)
	}
}

// ---------------------------------------------------------------------------
// TestBookEncode - Output must satisfy mdbook's deserializer
// ---------------------------------------------------------------------------

func TestBookEncode(t *testing.T) {
	t.Parallel()

	t.Run("nil slices encode as empty arrays, absent number as null", func(t *testing.T) {
		t.Parallel()

		b := &book.Book{Sections: []book.Item{
			book.ChapterItem(&book.Chapter{
				Name:    "Draft",
				Content: "unwritten",
			}),
		}}

		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		s := string(data)

		for _, want := range []string{
			`"sub_items":[]`,
			`"parent_names":[]`,
			`"number":null`,
			`"path":null`,
			`"source_path":null`,
			`"__non_exhaustive":null`,
		} {
			if !strings.Contains(s, want) {
				t.Errorf("encoded book missing %s, got: %s", want, s)
			}
		}
	})

	t.Run("separator and part title keep their variant encodings", func(t *testing.T) {
		t.Parallel()

		b := &book.Book{Sections: []book.Item{
			{Kind: book.KindSeparator},
			{Kind: book.KindPartTitle, PartTitle: "Part One"},
		}}

		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		s := string(data)

		if !strings.Contains(s, `"Separator"`) {
			t.Errorf("encoded book missing bare Separator string: %s", s)
		}
		if !strings.Contains(s, `{"PartTitle":"Part One"}`) {
			t.Errorf("encoded book missing PartTitle object: %s", s)
		}
	})

	t.Run("nil sections encode as empty array", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(&book.Book{})
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if !strings.Contains(string(data), `"sections":[]`) {
			t.Errorf("encoded empty book = %s, want sections:[]", data)
		}
	})

	t.Run("chapter item without chapter is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := json.Marshal(book.Item{Kind: book.KindChapter})
		if err == nil {
			t.Fatal("Marshal expected error, got nil")
		}
	})
}

// ---------------------------------------------------------------------------
// TestBookRoundTrip - Decode/encode/decode yields the same tree
// ---------------------------------------------------------------------------

func TestBookRoundTrip(t *testing.T) {
	t.Parallel()

	var first book.Book
	if err := json.Unmarshal([]byte(sampleBookJSON), &first); err != nil {
		t.Fatalf("first decode failed: %v", err)
	}

	encoded, err := json.Marshal(&first)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var second book.Book
	if err := json.Unmarshal(encoded, &second); err != nil {
		t.Fatalf("second decode failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("round trip changed the tree:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// ---------------------------------------------------------------------------
// TestItemDecode_Malformed - Unknown variants are protocol errors
// ---------------------------------------------------------------------------

func TestItemDecode_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "unknown string variant", data: `"Divider"`},
		{name: "unknown object variant", data: `{"Banner": "x"}`},
		{name: "number is not an item", data: `42`},
		{name: "chapter with wrong field types", data: `{"Chapter": {"name": 7}}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var it book.Item
			err := json.Unmarshal([]byte(tt.data), &it)
			if err == nil {
				t.Fatalf("Unmarshal(%s) expected error, got %+v", tt.data, it)
			}
			if !errors.Is(err, book.ErrMalformedBook) {
				t.Errorf("errors.Is(err, ErrMalformedBook) = false, got: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestChapterCodec - Draft and numbered chapters keep their null shapes
// ---------------------------------------------------------------------------

func TestChapterCodec(t *testing.T) {
	t.Parallel()

	in := `{"name": "N", "content": "C", "number": [2, 1], "sub_items": [], "path": null, "source_path": null, "parent_names": ["P"]}`

	var ch book.Chapter
	if err := json.Unmarshal([]byte(in), &ch); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !ch.IsDraft() {
		t.Error("chapter with null path should be a draft")
	}
	if !reflect.DeepEqual(ch.Number, []uint32{2, 1}) {
		t.Errorf("number = %v, want [2 1]", ch.Number)
	}

	out, err := json.Marshal(&ch)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `"number":[2,1]`) {
		t.Errorf("number lost on round trip: %s", s)
	}
	if !strings.Contains(s, `"path":null`) {
		t.Errorf("draft path must re-encode as null: %s", s)
	}

	withPath := book.Chapter{Name: "N", Path: strPtr("ch.md")}
	if withPath.IsDraft() {
		t.Error("chapter with path should not be a draft")
	}
}
