package book

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedBook marks book payloads this package cannot decode or encode.
var ErrMalformedBook = errors.New("malformed book")

// separatorToken is the serde encoding of the Separator variant: a bare string.
const separatorToken = "Separator"

// chapterJSON is the wire shape of a chapter. Slice fields must re-encode as
// [] rather than null (mdbook's deserializer requires arrays), while Number
// must stay null for unnumbered chapters, so Chapter carries custom codecs
// instead of struct tags alone.
type chapterJSON struct {
	Name        string   `json:"name"`
	Content     string   `json:"content"`
	Number      []uint32 `json:"number"`
	SubItems    []Item   `json:"sub_items"`
	Path        *string  `json:"path"`
	SourcePath  *string  `json:"source_path"`
	ParentNames []string `json:"parent_names"`
}

func (c *Chapter) MarshalJSON() ([]byte, error) {
	j := chapterJSON{
		Name:        c.Name,
		Content:     c.Content,
		Number:      c.Number,
		SubItems:    c.SubItems,
		Path:        c.Path,
		SourcePath:  c.SourcePath,
		ParentNames: c.ParentNames,
	}
	if j.SubItems == nil {
		j.SubItems = []Item{}
	}
	if j.ParentNames == nil {
		j.ParentNames = []string{}
	}
	return json.Marshal(j)
}

func (c *Chapter) UnmarshalJSON(data []byte) error {
	var j chapterJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return fmt.Errorf("%w: decoding chapter: %v", ErrMalformedBook, err)
	}
	*c = Chapter{
		Name:        j.Name,
		Content:     j.Content,
		Number:      j.Number,
		SubItems:    j.SubItems,
		Path:        j.Path,
		SourcePath:  j.SourcePath,
		ParentNames: j.ParentNames,
	}
	return nil
}

// Item uses serde's externally tagged encoding: "Separator" is a bare string,
// the other variants are single-key objects.
func (it Item) MarshalJSON() ([]byte, error) {
	switch it.Kind {
	case KindSeparator:
		return json.Marshal(separatorToken)
	case KindPartTitle:
		return json.Marshal(map[string]string{"PartTitle": it.PartTitle})
	case KindChapter:
		if it.Chapter == nil {
			return nil, fmt.Errorf("%w: chapter item without chapter", ErrMalformedBook)
		}
		return json.Marshal(map[string]*Chapter{"Chapter": it.Chapter})
	}
	return nil, fmt.Errorf("%w: unknown item kind %d", ErrMalformedBook, int(it.Kind))
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		if token != separatorToken {
			return fmt.Errorf("%w: unknown item variant %q", ErrMalformedBook, token)
		}
		*it = Item{Kind: KindSeparator}
		return nil
	}

	var variant struct {
		Chapter   *Chapter `json:"Chapter"`
		PartTitle *string  `json:"PartTitle"`
	}
	if err := json.Unmarshal(data, &variant); err != nil {
		return fmt.Errorf("%w: decoding item: %v", ErrMalformedBook, err)
	}
	switch {
	case variant.Chapter != nil:
		*it = Item{Kind: KindChapter, Chapter: variant.Chapter}
	case variant.PartTitle != nil:
		*it = Item{Kind: KindPartTitle, PartTitle: *variant.PartTitle}
	default:
		return fmt.Errorf("%w: item is neither chapter, part title, nor separator", ErrMalformedBook)
	}
	return nil
}

// bookJSON carries the __non_exhaustive marker mdbook emits; it decodes and
// re-encodes as an always-null field.
type bookJSON struct {
	Sections      []Item    `json:"sections"`
	NonExhaustive *struct{} `json:"__non_exhaustive"`
}

func (b *Book) MarshalJSON() ([]byte, error) {
	j := bookJSON{Sections: b.Sections}
	if j.Sections == nil {
		j.Sections = []Item{}
	}
	return json.Marshal(j)
}

func (b *Book) UnmarshalJSON(data []byte) error {
	var j bookJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return fmt.Errorf("%w: decoding book: %v", ErrMalformedBook, err)
	}
	b.Sections = j.Sections
	return nil
}
