// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

// ToolbarState reflects the formatting at the caret.
type ToolbarState struct {
	Block      BlockKind `json:"block"`
	Level      int       `json:"level,omitempty"`
	Bold       bool      `json:"bold"`
	Italic     bool      `json:"italic"`
	Underline  bool      `json:"underline"`
	FontFamily string    `json:"font_family"`
	FontSize   int       `json:"font_size"`
}

// FontSizeBuckets are the sizes offered by the toolbar dropdown.
var FontSizeBuckets = []int{14, 16, 18, 20, 24, 30}

// defaultSizes is the rendered size of unstyled text per block type.
var defaultSizes = map[int]int{0: 16, 1: 30, 2: 24, 3: 18, 4: 16, 5: 13, 6: 11}

// Toolbar returns the state the toolbar shows for the caret at pos.
func (e *Editor) Toolbar(pos Position) (ToolbarState, error) {
	if err := e.checkPos(pos); err != nil {
		return ToolbarState{}, err
	}
	b := &e.doc.Blocks[pos.Block]
	st := ToolbarState{Block: b.Kind, Level: b.Level, FontFamily: "default"}
	if b.Kind == BlockImage {
		return st, nil
	}

	m := marksAt(b.Runs, pos.Offset)
	st.Bold, st.Italic, st.Underline = m.Bold, m.Italic, m.Underline
	if m.FontFamily != FontDefault {
		st.FontFamily = m.FontFamily
	}

	px := m.FontSizePx
	if px == 0 {
		level := 0
		if b.Kind == BlockHeading {
			level = clampLevel(b.Level)
		}
		px = defaultSizes[level]
	}
	st.FontSize = NearestFontSize(px)
	return st, nil
}

// NearestFontSize rounds px to the closest toolbar bucket. Ties go to the
// smaller bucket.
func NearestFontSize(px int) int {
	best := FontSizeBuckets[0]
	for _, b := range FontSizeBuckets[1:] {
		if abs(b-px) < abs(best-px) {
			best = b
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
