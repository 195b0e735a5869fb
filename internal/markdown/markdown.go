// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts legacy markdown-like paragraphs into HTML using
// goldmark. Raw HTML in the source is rendered as escaped text, so a sentence
// like "use the <b> tag" keeps every character the author typed.
package markdown

import (
	"bytes"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			// Classes instead of inline styles so the sanitizer can keep them.
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(), // single newlines inside a paragraph become <br>
		// Lower value wins over the default HTML renderer (1000).
		renderer.WithNodeRenderers(util.Prioritized(rawTextRenderer{}, 100)),
	),
)

// ToHTML converts a markdown paragraph into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rawTextRenderer writes inline and block HTML nodes as their escaped source.
type rawTextRenderer struct{}

func (rawTextRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindRawHTML, renderRawHTML)
	reg.Register(ast.KindHTMLBlock, renderHTMLBlock)
}

func renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		_, _ = w.Write(util.EscapeHTML(seg.Value(source)))
	}
	return ast.WalkSkipChildren, nil
}

// renderHTMLBlock turns an HTML block into a plain paragraph, keeping line
// breaks the same way hard wraps do for ordinary text.
func renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.HTMLBlock)

	var raw bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		raw.Write(seg.Value(source))
	}
	if n.HasClosure() {
		raw.Write(n.ClosureLine.Value(source))
	}

	text := strings.TrimRight(raw.String(), "\r\n")
	if strings.TrimSpace(text) == "" {
		return ast.WalkSkipChildren, nil
	}
	escaped := string(util.EscapeHTML([]byte(text)))
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")

	_, _ = w.WriteString("<p>")
	_, _ = w.WriteString(strings.ReplaceAll(escaped, "\n", "<br>\n"))
	_, _ = w.WriteString("</p>\n")
	return ast.WalkSkipChildren, nil
}
