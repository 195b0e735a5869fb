// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"fmt"
	"html"
	"strings"
)

// fontStacks maps toolbar font buckets to the CSS written into the markup.
var fontStacks = map[string]string{
	FontSerif: "Georgia, serif",
	FontMono:  "ui-monospace, monospace",
}

// HTML serializes the document as a sequence of self-contained block
// elements, the format stored in entry bodies.
func (d *Document) HTML() string {
	var sb strings.Builder
	for i := range d.Blocks {
		writeBlock(&sb, &d.Blocks[i])
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, b *Block) {
	switch b.Kind {
	case BlockImage:
		if b.Image == nil {
			return
		}
		fmt.Fprintf(sb, `<p><img src="%s" alt="%s"></p>`,
			html.EscapeString(b.Image.Src), html.EscapeString(b.Image.Alt))
	case BlockHeading:
		tag := fmt.Sprintf("h%d", clampLevel(b.Level))
		sb.WriteString("<" + tag + ">")
		writeRuns(sb, b.Runs)
		sb.WriteString("</" + tag + ">")
	default:
		sb.WriteString("<p>")
		writeRuns(sb, b.Runs)
		sb.WriteString("</p>")
	}
}

func writeRuns(sb *strings.Builder, runs []Run) {
	if len(runs) == 0 {
		// Empty blocks keep their height in the browser.
		sb.WriteString("<br>")
		return
	}
	for _, r := range runs {
		sb.WriteString(runHTML(r))
	}
}

func runHTML(r Run) string {
	s := strings.ReplaceAll(html.EscapeString(r.Text), "\n", "<br>")
	m := r.Marks
	if m.Underline {
		s = "<u>" + s + "</u>"
	}
	if m.Italic {
		s = "<i>" + s + "</i>"
	}
	if m.Bold {
		s = "<b>" + s + "</b>"
	}

	var styles []string
	if stack, ok := fontStacks[m.FontFamily]; ok {
		styles = append(styles, "font-family: "+stack)
	}
	if m.FontSizePx > 0 {
		styles = append(styles, fmt.Sprintf("font-size: %dpx", m.FontSizePx))
	}
	if len(styles) > 0 {
		s = `<span style="` + strings.Join(styles, "; ") + `">` + s + "</span>"
	}

	if m.Link != "" {
		s = `<a href="` + html.EscapeString(m.Link) + `">` + s + "</a>"
	}
	return s
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}
