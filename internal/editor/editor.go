// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor implements the studio's rich text editor as an explicit
// document model: blocks of styled text runs and images, edited through
// commands, serialized to the HTML stored in entry bodies.
//
// An Editor is owned by a single caller and is not safe for concurrent use.
package editor

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"contentstudio/internal/content"
)

// State is the lifecycle stage of an Editor. Transitions are one-way.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateEditing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateEditing:
		return "editing"
	default:
		return "uninitialized"
	}
}

var (
	ErrNotMounted        = errors.New("editor: not mounted")
	ErrOutOfRange        = errors.New("editor: position out of range")
	ErrNotText           = errors.New("editor: block does not hold text")
	ErrInvalidLevel      = errors.New("editor: heading level must be 1-6")
	ErrInvalidFontFamily = errors.New("editor: unknown font family")
	ErrInvalidFontSize   = errors.New("editor: font size out of range")
	ErrNoUploader        = errors.New("editor: no image uploader configured")
)

// Font size limits accepted by SetFontSize.
const (
	MinFontSizePx = 8
	MaxFontSizePx = 96
)

// callbackRef is the stable indirection behind onChange: swapping the
// target never touches editor state.
type callbackRef struct {
	mu sync.Mutex
	fn func(string)
}

func (c *callbackRef) set(fn func(string)) {
	c.mu.Lock()
	c.fn = fn
	c.mu.Unlock()
}

func (c *callbackRef) call(html string) {
	c.mu.Lock()
	fn := c.fn
	c.mu.Unlock()
	if fn != nil {
		fn(html)
	}
}

// Editor holds one document and applies editing commands to it. Every
// mutation reports the new HTML through the onChange callback.
type Editor struct {
	state    State
	doc      *Document
	onChange *callbackRef
	uploader Uploader
}

// New creates an unmounted editor. uploader may be nil, in which case image
// insertion fails with ErrNoUploader.
func New(uploader Uploader) *Editor {
	return &Editor{
		onChange: &callbackRef{},
		uploader: uploader,
	}
}

// SetOnChange replaces the change callback without resetting the editor.
func (e *Editor) SetOnChange(fn func(html string)) {
	e.onChange.set(fn)
}

// State returns the current lifecycle state.
func (e *Editor) State() State {
	return e.state
}

// Mount loads the initial value. It runs once: later calls are ignored and
// return false so a re-render of the host never clobbers the user's edits.
// HTML values (per content.IsHTML) are imported as markup; anything else is
// split into one paragraph per non-empty line.
func (e *Editor) Mount(initial string) bool {
	if e.state != StateUninitialized {
		return false
	}
	e.state = StateInitialized

	switch {
	case strings.TrimSpace(initial) == "":
		e.doc = &Document{}
		e.doc.ensureBlock()
	case content.IsHTML(initial):
		doc, err := ParseHTML(initial)
		if err != nil {
			slog.Warn("editor html import failed, falling back to text", "error", err)
			doc = FromText(initial)
		}
		e.doc = doc
	default:
		e.doc = FromText(initial)
	}
	return true
}

// Load restores a document the editor produced earlier, skipping the HTML
// detection Mount applies to stored values. Like Mount it runs once.
// Unknown block kinds become paragraphs, heading levels are clamped, image
// blocks without a source are dropped and runs are normalized.
func (e *Editor) Load(doc *Document) bool {
	if e.state != StateUninitialized {
		return false
	}
	e.state = StateInitialized

	e.doc = &Document{}
	if doc != nil {
		for _, b := range doc.clone().Blocks {
			switch b.Kind {
			case BlockImage:
				if b.Image == nil || b.Image.Src == "" {
					continue
				}
				b.Level, b.Runs = 0, nil
			case BlockHeading:
				b.Level = clampLevel(b.Level)
				b.Image = nil
			default:
				b.Kind, b.Level, b.Image = BlockParagraph, 0, nil
			}
			b.Runs = normalizeRuns(b.Runs)
			e.doc.Blocks = append(e.doc.Blocks, b)
		}
	}
	e.doc.ensureBlock()
	return true
}

// HTML returns the current markup, or "" before Mount.
func (e *Editor) HTML() string {
	if e.doc == nil {
		return ""
	}
	return e.doc.HTML()
}

// Document returns a copy of the current document model.
func (e *Editor) Document() *Document {
	if e.doc == nil {
		return &Document{}
	}
	return e.doc.clone()
}

// emit marks the editor as edited and publishes the new markup.
func (e *Editor) emit() {
	e.state = StateEditing
	e.onChange.call(e.doc.HTML())
}

func (e *Editor) ready() error {
	if e.state == StateUninitialized {
		return ErrNotMounted
	}
	return nil
}

func (e *Editor) checkPos(p Position) error {
	if err := e.ready(); err != nil {
		return err
	}
	if !e.doc.valid(p) {
		return ErrOutOfRange
	}
	return nil
}

func (e *Editor) checkSel(s Selection) error {
	if err := e.checkPos(s.Anchor); err != nil {
		return err
	}
	return e.checkPos(s.Focus)
}

// textBlock returns the block at p if it holds text.
func (e *Editor) textBlock(p Position) (*Block, error) {
	if err := e.checkPos(p); err != nil {
		return nil, err
	}
	b := &e.doc.Blocks[p.Block]
	if b.Kind == BlockImage {
		return nil, ErrNotText
	}
	return b, nil
}

// InsertText types text at pos, inheriting the marks of the preceding
// character. Returns the caret after the inserted text.
func (e *Editor) InsertText(pos Position, text string) (Position, error) {
	b, err := e.textBlock(pos)
	if err != nil {
		return pos, err
	}
	if text == "" {
		return pos, nil
	}

	head, tail := splitRunsAt(b.Runs, pos.Offset)
	b.Runs = concatRuns(head, []Run{{Text: text, Marks: marksAt(b.Runs, pos.Offset)}}, tail)
	e.emit()
	return Position{Block: pos.Block, Offset: pos.Offset + len([]rune(text))}, nil
}

// DeleteRange removes the selected content, merging the first and last
// blocks when the selection spans several. Returns the collapsed caret.
func (e *Editor) DeleteRange(sel Selection) (Position, error) {
	if err := e.checkSel(sel); err != nil {
		return sel.Focus, err
	}
	start, end := sel.ordered()
	if start == end {
		return start, nil
	}

	d := e.doc
	if start.Block == end.Block {
		b := &d.Blocks[start.Block]
		if b.Kind == BlockImage {
			d.removeBlocks(start.Block, start.Block+1)
			d.ensureBlock()
			caret := Position{Block: min(start.Block, len(d.Blocks)-1)}
			e.emit()
			return caret, nil
		}
		head, _, tail := sliceRuns(b.Runs, start.Offset, end.Offset)
		b.Runs = concatRuns(head, tail)
		e.emit()
		return start, nil
	}

	first, last := d.Blocks[start.Block], d.Blocks[end.Block]
	from, to := start.Block, end.Block+1
	merged := Block{Kind: first.Kind, Level: first.Level}
	caret := start
	if first.Kind == BlockImage {
		// A caret after the image keeps it; one before it deletes it.
		merged = Block{Kind: BlockParagraph}
		if last.Kind != BlockImage {
			merged.Kind, merged.Level = last.Kind, last.Level
		}
		if start.Offset == 1 {
			from++
		}
		caret = Position{Block: from}
	} else {
		merged.Runs, _ = splitRunsAt(first.Runs, start.Offset)
	}
	switch {
	case last.Kind != BlockImage:
		_, tail := splitRunsAt(last.Runs, end.Offset)
		merged.Runs = concatRuns(merged.Runs, tail)
	case end.Offset == 0:
		to--
	}
	if from == to {
		// Only the gap between two images was selected.
		return start, nil
	}

	d.removeBlocks(from, to)
	d.insertBlocks(from, merged)
	e.emit()
	return caret, nil
}

// SplitBlock breaks the block at pos (the Enter key). Text after the caret
// moves into a new paragraph; returns the caret at its start.
func (e *Editor) SplitBlock(pos Position) (Position, error) {
	if err := e.checkPos(pos); err != nil {
		return pos, err
	}
	d := e.doc
	b := &d.Blocks[pos.Block]
	if b.Kind == BlockImage {
		at := pos.Block + pos.Offset
		d.insertBlocks(at, newParagraph())
		e.emit()
		return Position{Block: at}, nil
	}

	head, tail := splitRunsAt(b.Runs, pos.Offset)
	b.Runs = normalizeRuns(head)
	d.insertBlocks(pos.Block+1, newParagraph(tail...))
	e.emit()
	return Position{Block: pos.Block + 1}, nil
}

// KeySpace handles the space key. When the text between the block start and
// the caret is 1-3 '#' characters, the keystroke is consumed: the hashes are
// removed and the block becomes a heading of that level, with the caret at
// its start. Otherwise a space is typed. The bool reports the conversion.
func (e *Editor) KeySpace(pos Position) (Position, bool, error) {
	b, err := e.textBlock(pos)
	if err != nil {
		return pos, false, err
	}

	if pos.Offset >= 1 && pos.Offset <= 3 {
		prefix := string([]rune(b.Text())[:pos.Offset])
		if strings.Trim(prefix, "#") == "" {
			_, rest := splitRunsAt(b.Runs, pos.Offset)
			b.Kind = BlockHeading
			b.Level = pos.Offset
			b.Runs = normalizeRuns(rest)
			e.emit()
			return Position{Block: pos.Block}, true, nil
		}
	}

	caret, err := e.InsertText(pos, " ")
	return caret, false, err
}

// SetHeading converts a block into a heading of the given level.
func (e *Editor) SetHeading(block, level int) error {
	if level < 1 || level > 6 {
		return ErrInvalidLevel
	}
	b, err := e.textBlock(Position{Block: block})
	if err != nil {
		return err
	}
	b.Kind = BlockHeading
	b.Level = level
	e.emit()
	return nil
}

// SetParagraph converts a block back into a paragraph.
func (e *Editor) SetParagraph(block int) error {
	b, err := e.textBlock(Position{Block: block})
	if err != nil {
		return err
	}
	b.Kind = BlockParagraph
	b.Level = 0
	e.emit()
	return nil
}

// ToggleBold toggles bold over the selection.
func (e *Editor) ToggleBold(sel Selection) error {
	return e.toggle(sel, func(m Marks) bool { return m.Bold }, func(m Marks, on bool) Marks { m.Bold = on; return m })
}

// ToggleItalic toggles italic over the selection.
func (e *Editor) ToggleItalic(sel Selection) error {
	return e.toggle(sel, func(m Marks) bool { return m.Italic }, func(m Marks, on bool) Marks { m.Italic = on; return m })
}

// ToggleUnderline toggles underline over the selection.
func (e *Editor) ToggleUnderline(sel Selection) error {
	return e.toggle(sel, func(m Marks) bool { return m.Underline }, func(m Marks, on bool) Marks { m.Underline = on; return m })
}

// toggle removes a mark when the whole selection carries it and applies it
// otherwise. Collapsed selections are a no-op.
func (e *Editor) toggle(sel Selection, has func(Marks) bool, set func(Marks, bool) Marks) error {
	if err := e.checkSel(sel); err != nil {
		return err
	}
	start, end := sel.ordered()
	ranges := e.doc.textRanges(start, end)
	if len(ranges) == 0 {
		return nil
	}
	on := !e.doc.allMarked(ranges, has)
	e.doc.updateMarks(ranges, func(m Marks) Marks { return set(m, on) })
	e.emit()
	return nil
}

// SetFontFamily applies a font bucket ("default", "serif" or "mono").
func (e *Editor) SetFontFamily(sel Selection, family string) error {
	switch family {
	case "default", FontDefault:
		family = FontDefault
	case FontSerif, FontMono:
	default:
		return ErrInvalidFontFamily
	}
	return e.applyMarks(sel, func(m Marks) Marks { m.FontFamily = family; return m })
}

// SetFontSize applies an explicit pixel size.
func (e *Editor) SetFontSize(sel Selection, px int) error {
	if px < MinFontSizePx || px > MaxFontSizePx {
		return ErrInvalidFontSize
	}
	return e.applyMarks(sel, func(m Marks) Marks { m.FontSizePx = px; return m })
}

func (e *Editor) applyMarks(sel Selection, fn func(Marks) Marks) error {
	if err := e.checkSel(sel); err != nil {
		return err
	}
	start, end := sel.ordered()
	ranges := e.doc.textRanges(start, end)
	if len(ranges) == 0 {
		return nil
	}
	e.doc.updateMarks(ranges, fn)
	e.emit()
	return nil
}
