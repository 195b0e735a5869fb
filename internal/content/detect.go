// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content converts entry bodies between their persisted paragraph
// arrays and the flat draft strings edited in the studio, and renders bodies
// to sanitized HTML for the public site.
package content

import "strings"

// htmlMarkers are the substrings whose presence marks a string as editor
// HTML rather than legacy plaintext.
var htmlMarkers = []string{"<img", "<p>", "<h2>"}

// IsHTML reports whether s looks like editor output. It is a substring test,
// not a parse: plain text containing a literal "<p>" is classified as HTML,
// and markup such as `<p class="x">` or `<h3>` with none of the markers is
// classified as plaintext. Every caller that needs the decision must use this
// predicate so the behaviour stays identical across the codebase.
func IsHTML(s string) bool {
	for _, m := range htmlMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// AnyHTML reports whether any paragraph satisfies IsHTML.
func AnyHTML(paragraphs []string) bool {
	for _, p := range paragraphs {
		if IsHTML(p) {
			return true
		}
	}
	return false
}
