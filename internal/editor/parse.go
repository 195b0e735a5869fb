// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	styleFontSize   = regexp.MustCompile(`(?i)font-size\s*:\s*(\d+)px`)
	styleFontFamily = regexp.MustCompile(`(?i)font-family\s*:\s*([^;]+)`)
	whitespaceRun   = regexp.MustCompile(`[\t\r\n ]+`)
)

// legacyFontSizes maps the <font size="1..7"> scale to pixels.
var legacyFontSizes = map[int]int{1: 10, 2: 13, 3: 16, 4: 18, 5: 24, 6: 32, 7: 48}

// ParseHTML imports editor markup into a Document. Unknown elements are
// flattened into their text; nothing is ever rejected.
func ParseHTML(src string) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse editor html: %w", err)
	}

	p := &parser{}
	gq.Find("body").Contents().Each(func(_ int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			p.block(n)
		}
	})
	p.flush()

	d := &Document{Blocks: p.blocks}
	d.ensureBlock()
	return d, nil
}

// FromText builds a document from plaintext: one paragraph per non-empty line.
func FromText(src string) *Document {
	d := &Document{}
	for _, line := range strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			d.Blocks = append(d.Blocks, newParagraph(Run{Text: line}))
		}
	}
	d.ensureBlock()
	return d
}

// parser accumulates blocks while walking the node tree. Inline content is
// collected into the pending block until a block boundary flushes it.
type parser struct {
	blocks  []Block
	pending *Block
}

func (p *parser) flush() {
	if p.pending == nil {
		return
	}
	p.pending.Runs = normalizeRuns(p.pending.Runs)
	if strings.TrimSpace(p.pending.Text()) == "" && p.pending.Text() != "\n" {
		p.pending.Runs = nil
	}
	if p.pending.Text() == "\n" {
		// <p><br></p> is how an empty block is written.
		p.pending.Runs = nil
		p.blocks = append(p.blocks, *p.pending)
		p.pending = nil
		return
	}
	if p.pending.Kind == BlockHeading || len(p.pending.Runs) > 0 {
		p.blocks = append(p.blocks, *p.pending)
	}
	p.pending = nil
}

func (p *parser) open(kind BlockKind, level int) {
	p.flush()
	p.pending = &Block{Kind: kind, Level: level}
}

func (p *parser) appendRun(r Run) {
	if p.pending == nil {
		p.pending = &Block{Kind: BlockParagraph}
	}
	p.pending.Runs = append(p.pending.Runs, r)
}

func (p *parser) image(n *html.Node) {
	src := attr(n, "src")
	if src == "" {
		return
	}
	// An image splits the surrounding block; inline text after it continues
	// in a fresh block of the same kind.
	var resume *Block
	if p.pending != nil {
		resume = &Block{Kind: p.pending.Kind, Level: p.pending.Level}
	}
	p.flush()
	p.blocks = append(p.blocks, Block{Kind: BlockImage, Image: &ImageRef{Src: src, Alt: attr(n, "alt")}})
	p.pending = resume
}

// inlineTags are elements that continue the current block at top level.
var inlineTags = map[string]bool{
	"b": true, "strong": true, "i": true, "em": true, "u": true,
	"a": true, "span": true, "font": true,
}

// block handles a top-level node. Loose text and inline elements between
// blocks are gathered into one paragraph.
func (p *parser) block(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		text := whitespaceRun.ReplaceAllString(n.Data, " ")
		if p.pending == nil {
			text = strings.TrimLeft(text, " ")
		}
		if text != "" {
			p.appendRun(Run{Text: text})
		}
		return
	case html.ElementNode:
	default:
		return
	}

	if inlineTags[n.Data] {
		p.inline(n, Marks{})
		return
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level, _ := strconv.Atoi(n.Data[1:])
		p.open(BlockHeading, level)
		p.children(n, Marks{})
		p.flush()
	case "img":
		p.flush()
		p.image(n)
	case "ul", "ol", "blockquote", "section", "article", "figure":
		p.flush()
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.block(c)
		}
		p.flush()
	case "br", "hr":
		p.flush()
	default:
		// p, div, li and anything unknown become a paragraph.
		p.open(BlockParagraph, 0)
		p.children(n, Marks{})
		p.flush()
	}
}

func (p *parser) children(n *html.Node, m Marks) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.inline(c, m)
	}
}

// inline walks inline content, accumulating marks on the way down.
func (p *parser) inline(n *html.Node, m Marks) {
	switch n.Type {
	case html.TextNode:
		text := whitespaceRun.ReplaceAllString(n.Data, " ")
		if text != "" {
			p.appendRun(Run{Text: text, Marks: m})
		}
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.Data {
	case "b", "strong":
		m.Bold = true
	case "i", "em":
		m.Italic = true
	case "u":
		m.Underline = true
	case "a":
		m.Link = attr(n, "href")
	case "span":
		m = styleMarks(attr(n, "style"), m)
	case "font":
		if size, err := strconv.Atoi(attr(n, "size")); err == nil {
			if px, ok := legacyFontSizes[size]; ok {
				m.FontSizePx = px
			}
		}
		if face := attr(n, "face"); face != "" {
			m.FontFamily = familyBucket(face)
		}
		m = styleMarks(attr(n, "style"), m)
	case "br":
		p.appendRun(Run{Text: "\n", Marks: m})
		return
	case "img":
		p.image(n)
		return
	}
	p.children(n, m)
}

func styleMarks(style string, m Marks) Marks {
	if match := styleFontSize.FindStringSubmatch(style); match != nil {
		if px, err := strconv.Atoi(match[1]); err == nil {
			m.FontSizePx = px
		}
	}
	if match := styleFontFamily.FindStringSubmatch(style); match != nil {
		m.FontFamily = familyBucket(match[1])
	}
	return m
}

// familyBucket maps a CSS font-family value onto a toolbar bucket.
func familyBucket(css string) string {
	v := strings.ToLower(css)
	switch {
	case strings.Contains(v, "mono"), strings.Contains(v, "courier"), strings.Contains(v, "consolas"):
		return FontMono
	case strings.Contains(v, "sans"):
		return FontDefault
	case strings.Contains(v, "serif"), strings.Contains(v, "georgia"), strings.Contains(v, "times"):
		return FontSerif
	default:
		return FontDefault
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
