// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"fmt"
	"strings"

	htmltomd "github.com/JohannesKaufmann/html-to-markdown"
)

// mdConverter is the shared HTML → Markdown converter used for exports.
var mdConverter = htmltomd.NewConverter("", true, nil)

// ToMarkdown exports an entry body as Markdown. Plaintext bodies are already
// markdown-like and are only re-joined; HTML bodies are converted.
func ToMarkdown(paragraphs []string) (string, error) {
	if !AnyHTML(paragraphs) {
		var kept []string
		for _, p := range paragraphs {
			if p = strings.TrimSpace(p); p != "" {
				kept = append(kept, p)
			}
		}
		return strings.Join(kept, "\n\n"), nil
	}

	out, err := mdConverter.ConvertString(ToDraftString(paragraphs))
	if err != nil {
		return "", fmt.Errorf("convert body to markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}
