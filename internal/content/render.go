// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"html"
	"log/slog"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"contentstudio/internal/markdown"
)

var (
	// blankLines splits content into blocks on two or more newlines.
	blankLines = regexp.MustCompile(`\n\s*\n`)

	// blockTag matches blocks that are already editor HTML.
	blockTag = regexp.MustCompile(`(?i)^<(p|h[1-6]|ul|ol|li|blockquote|pre|figure|img|div|table|hr)[\s/>]`)

	// embeddedFragment finds headings and images pasted into a legacy
	// paragraph, e.g. "Intro <h2>Title</h2> more text".
	embeddedFragment = regexp.MustCompile(`(?is)<h[1-6][^>]*>.*?</h[1-6]>|<img\b[^>]*>`)

	fontSizeStyle   = regexp.MustCompile(`^\d{1,3}px$`)
	fontFamilyStyle = regexp.MustCompile(`^[A-Za-z0-9 ,"'-]+$`)
	highlightClass  = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)
)

// Renderer turns entry content into HTML that is safe to inject into a page.
// It is safe for concurrent use.
type Renderer struct {
	policy *bluemonday.Policy
}

// NewRenderer creates a Renderer with the site's sanitization policy: the
// bluemonday UGC profile plus the inline styles the studio editor emits and
// the classes produced by code highlighting.
func NewRenderer() *Renderer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("span", "u")
	p.AllowStyles("font-size").Matching(fontSizeStyle).OnElements("span")
	p.AllowStyles("font-family").Matching(fontFamilyStyle).OnElements("span")
	p.AllowAttrs("class").Matching(highlightClass).OnElements("pre", "code", "span")
	return &Renderer{policy: p}
}

// Render converts content (editor HTML blocks, legacy markdown-like text, or
// a mix separated by blank lines) into sanitized HTML.
func (r *Renderer) Render(source string) string {
	source = strings.ReplaceAll(source, "\r\n", "\n")

	var b strings.Builder
	for _, block := range blankLines.Split(source, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if blockTag.MatchString(block) {
			// Editor output; the sanitizer below is still applied.
			b.WriteString(block)
			continue
		}
		b.WriteString(renderLegacyBlock(block))
	}

	return r.policy.Sanitize(b.String())
}

// RenderEntry renders a persisted body. Paragraphs are rendered as separate
// blocks so a body mixing HTML and plaintext elements renders each correctly.
func (r *Renderer) RenderEntry(body []string) string {
	return r.Render(strings.Join(body, "\n\n"))
}

// Sanitize applies the content policy to already-rendered HTML.
func (r *Renderer) Sanitize(s string) string {
	return r.policy.Sanitize(s)
}

// renderLegacyBlock keeps embedded heading and image fragments as they are
// and renders the text around them as markdown.
func renderLegacyBlock(block string) string {
	var b strings.Builder
	prev := 0
	for _, loc := range embeddedFragment.FindAllStringIndex(block, -1) {
		b.WriteString(renderText(block[prev:loc[0]]))
		b.WriteString(block[loc[0]:loc[1]])
		prev = loc[1]
	}
	b.WriteString(renderText(block[prev:]))
	return b.String()
}

func renderText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	out, err := markdown.ToHTML(text)
	if err != nil {
		slog.Warn("markdown render failed, escaping block", "error", err)
		return "<p>" + html.EscapeString(text) + "</p>"
	}
	return strings.TrimSpace(out)
}
