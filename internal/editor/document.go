// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"strings"
	"unicode/utf8"
)

// BlockKind is the type of a top-level block in a document.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockHeading   BlockKind = "heading"
	BlockImage     BlockKind = "image"
)

// Font family buckets offered by the toolbar. The empty string is the
// site default.
const (
	FontDefault = ""
	FontSerif   = "serif"
	FontMono    = "mono"
)

// Marks are the inline formatting attributes of a run of text.
type Marks struct {
	Bold       bool   `json:"bold,omitempty"`
	Italic     bool   `json:"italic,omitempty"`
	Underline  bool   `json:"underline,omitempty"`
	FontFamily string `json:"font_family,omitempty"`
	FontSizePx int    `json:"font_size_px,omitempty"`
	Link       string `json:"link,omitempty"`
}

// Run is a span of text sharing the same marks.
type Run struct {
	Text  string `json:"text"`
	Marks Marks  `json:"marks"`
}

// ImageRef points at an uploaded image.
type ImageRef struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Block is a paragraph, a heading (Level 1-6), or an image.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Level int       `json:"level,omitempty"`
	Runs  []Run     `json:"runs,omitempty"`
	Image *ImageRef `json:"image,omitempty"`
}

// Document is the editor's structured content model.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// Position addresses a caret: a block index and a rune offset inside it.
// Image blocks are atomic and have length 1.
type Position struct {
	Block  int `json:"block"`
	Offset int `json:"offset"`
}

// Selection is an anchor/focus pair. Anchor may come after Focus.
type Selection struct {
	Anchor Position `json:"anchor"`
	Focus  Position `json:"focus"`
}

// Collapsed reports whether the selection covers nothing.
func (s Selection) Collapsed() bool {
	return s.Anchor == s.Focus
}

// ordered returns the selection bounds in document order.
func (s Selection) ordered() (Position, Position) {
	if before(s.Focus, s.Anchor) {
		return s.Focus, s.Anchor
	}
	return s.Anchor, s.Focus
}

func before(a, b Position) bool {
	if a.Block != b.Block {
		return a.Block < b.Block
	}
	return a.Offset < b.Offset
}

func newParagraph(runs ...Run) Block {
	return Block{Kind: BlockParagraph, Runs: normalizeRuns(runs)}
}

// Text returns the plain text of the block.
func (b *Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Len returns the number of caret steps in the block.
func (b *Block) Len() int {
	if b.Kind == BlockImage {
		return 1
	}
	n := 0
	for _, r := range b.Runs {
		n += utf8.RuneCountInString(r.Text)
	}
	return n
}

// clone returns a deep copy of the document.
func (d *Document) clone() *Document {
	out := &Document{Blocks: make([]Block, len(d.Blocks))}
	for i, b := range d.Blocks {
		nb := b
		nb.Runs = append([]Run(nil), b.Runs...)
		if b.Image != nil {
			img := *b.Image
			nb.Image = &img
		}
		out.Blocks[i] = nb
	}
	return out
}

// valid reports whether p addresses a caret inside the document.
func (d *Document) valid(p Position) bool {
	if p.Block < 0 || p.Block >= len(d.Blocks) {
		return false
	}
	return p.Offset >= 0 && p.Offset <= d.Blocks[p.Block].Len()
}

// insertBlocks inserts blocks at index i.
func (d *Document) insertBlocks(i int, blocks ...Block) {
	out := make([]Block, 0, len(d.Blocks)+len(blocks))
	out = append(out, d.Blocks[:i]...)
	out = append(out, blocks...)
	out = append(out, d.Blocks[i:]...)
	d.Blocks = out
}

// removeBlocks removes blocks [from, to).
func (d *Document) removeBlocks(from, to int) {
	out := make([]Block, 0, len(d.Blocks)-(to-from))
	out = append(out, d.Blocks[:from]...)
	out = append(out, d.Blocks[to:]...)
	d.Blocks = out
}

// ensureBlock keeps at least one empty paragraph so a caret always exists.
func (d *Document) ensureBlock() {
	if len(d.Blocks) == 0 {
		d.Blocks = []Block{newParagraph()}
	}
}

// splitRunsAt splits runs at a rune offset.
func splitRunsAt(runs []Run, offset int) (left, right []Run) {
	for _, r := range runs {
		n := utf8.RuneCountInString(r.Text)
		switch {
		case offset <= 0:
			right = append(right, r)
		case offset >= n:
			left = append(left, r)
			offset -= n
		default:
			rs := []rune(r.Text)
			left = append(left, Run{Text: string(rs[:offset]), Marks: r.Marks})
			right = append(right, Run{Text: string(rs[offset:]), Marks: r.Marks})
			offset = 0
		}
	}
	return left, right
}

// sliceRuns cuts runs into the parts before, inside and after [start, end).
func sliceRuns(runs []Run, start, end int) (head, mid, tail []Run) {
	head, rest := splitRunsAt(runs, start)
	mid, tail = splitRunsAt(rest, end-start)
	return head, mid, tail
}

// normalizeRuns drops empty runs and merges neighbours with equal marks.
func normalizeRuns(runs []Run) []Run {
	var out []Run
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Marks == r.Marks {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

func concatRuns(parts ...[]Run) []Run {
	var out []Run
	for _, p := range parts {
		out = append(out, p...)
	}
	return normalizeRuns(out)
}

// marksAt returns the marks that text typed at offset inherits: those of
// the character before the caret, or of the first character at offset 0.
func marksAt(runs []Run, offset int) Marks {
	if len(runs) == 0 {
		return Marks{}
	}
	if offset > 0 {
		offset--
	}
	for _, r := range runs {
		n := utf8.RuneCountInString(r.Text)
		if offset < n {
			return r.Marks
		}
		offset -= n
	}
	return runs[len(runs)-1].Marks
}

// blockRange is the part of one text block covered by a selection.
type blockRange struct {
	block      int
	start, end int
}

// textRanges splits a selection into per-block ranges, skipping images.
func (d *Document) textRanges(start, end Position) []blockRange {
	var out []blockRange
	for i := start.Block; i <= end.Block; i++ {
		b := &d.Blocks[i]
		if b.Kind == BlockImage {
			continue
		}
		s, e := 0, b.Len()
		if i == start.Block {
			s = start.Offset
		}
		if i == end.Block {
			e = end.Offset
		}
		if s < e {
			out = append(out, blockRange{block: i, start: s, end: e})
		}
	}
	return out
}

// updateMarks rewrites the marks of every run inside the ranges.
func (d *Document) updateMarks(ranges []blockRange, fn func(Marks) Marks) {
	for _, rg := range ranges {
		b := &d.Blocks[rg.block]
		head, mid, tail := sliceRuns(b.Runs, rg.start, rg.end)
		for i := range mid {
			mid[i].Marks = fn(mid[i].Marks)
		}
		b.Runs = concatRuns(head, mid, tail)
	}
}

// allMarked reports whether every run in the ranges satisfies pred.
func (d *Document) allMarked(ranges []blockRange, pred func(Marks) bool) bool {
	if len(ranges) == 0 {
		return false
	}
	for _, rg := range ranges {
		_, mid, _ := sliceRuns(d.Blocks[rg.block].Runs, rg.start, rg.end)
		for _, r := range mid {
			if !pred(r.Marks) {
				return false
			}
		}
	}
	return true
}
