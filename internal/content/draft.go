// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// newlineRuns separates legacy plaintext paragraphs.
var newlineRuns = regexp.MustCompile(`[\r\n]+`)

// ToDraftString flattens an entry body into the single string edited in the
// studio. HTML bodies are concatenated as-is (each element is already a
// self-contained block); plaintext bodies are joined with blank lines.
func ToDraftString(paragraphs []string) string {
	if AnyHTML(paragraphs) {
		return strings.Join(paragraphs, "")
	}
	return strings.Join(paragraphs, "\n\n")
}

// FromDraftString converts a studio draft back into the persisted paragraph
// array. HTML drafts are split into their top-level elements, each serialized
// as outer HTML; whitespace and stray text between elements is dropped.
// Plaintext drafts are split on runs of newlines. The result is never empty:
// when nothing survives, the trimmed input is returned as the only element.
func FromDraftString(input string) []string {
	var out []string
	if IsHTML(input) {
		out = splitHTMLBlocks(input)
	} else {
		for _, seg := range newlineRuns.Split(input, -1) {
			if seg = strings.TrimSpace(seg); seg != "" {
				out = append(out, seg)
			}
		}
	}

	if len(out) == 0 {
		return []string{strings.TrimSpace(input)}
	}
	return out
}

// splitHTMLBlocks parses input as a body fragment and returns the outer HTML
// of each direct child element. Any failure degrades to treating the whole
// input as one opaque block.
func splitHTMLBlocks(input string) []string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(input), body)
	if err != nil {
		return []string{input}
	}

	var blocks []string
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			continue
		}
		var buf bytes.Buffer
		if err := html.Render(&buf, n); err != nil {
			return []string{input}
		}
		blocks = append(blocks, buf.String())
	}

	if len(blocks) == 0 {
		return []string{input}
	}
	return blocks
}
