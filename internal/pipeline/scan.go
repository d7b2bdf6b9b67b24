package pipeline

import "regexp"

// fencePattern matches one fenced mermaid block: opening fence, diagram
// source, closing fence. (?s) lets the non-greedy body span lines without
// swallowing a following block; \r?\n tolerates CRLF sources.
var fencePattern = regexp.MustCompile("(?s)```mermaid\r?\n(.*?)\r?\n```")

// Block is one diagram occurrence located inside a chapter body.
type Block struct {
	Start    int    // byte offset of the opening fence
	End      int    // byte offset just past the closing fence
	Source   string // diagram source between the fences
	Original string // the full fenced block as written
}

// ScanBlocks locates every diagram block in content in one left-to-right
// pass. Matches never overlap, so the returned ranges are disjoint and
// ordered by Start.
func ScanBlocks(content string) []Block {
	matches := fencePattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, Block{
			Start:    m[0],
			End:      m[1],
			Source:   content[m[2]:m[3]],
			Original: content[m[0]:m[1]],
		})
	}
	return blocks
}
