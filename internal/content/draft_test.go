// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"reflect"
	"strings"
	"testing"
)

func TestToDraftString(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  string
	}{
		{name: "plaintext joined by blank lines", input: []string{"Hello", "World"}, want: "Hello\n\nWorld"},
		{name: "html concatenated", input: []string{"<p>A</p>", "<p>B</p>"}, want: "<p>A</p><p>B</p>"},
		{name: "one html paragraph switches strategy", input: []string{"plain", "<h2>T</h2>"}, want: "plain<h2>T</h2>"},
		{name: "single paragraph", input: []string{"only"}, want: "only"},
		{name: "empty", input: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToDraftString(tt.input); got != tt.want {
				t.Errorf("ToDraftString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromDraftString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "plaintext paragraphs", input: "Hello\n\nWorld", want: []string{"Hello", "World"}},
		{name: "single newlines also split", input: "a\nb\r\nc", want: []string{"a", "b", "c"}},
		{name: "segments trimmed", input: "  a  \n\n\n   \n b ", want: []string{"a", "b"}},
		{name: "html blocks", input: "<p>A</p><p>B</p>", want: []string{"<p>A</p>", "<p>B</p>"}},
		{name: "whitespace between html blocks dropped", input: "<p>A</p>\n\n  <h2>B</h2>\n", want: []string{"<p>A</p>", "<h2>B</h2>"}},
		{name: "stray top-level text dropped", input: "lead <p>A</p> tail", want: []string{"<p>A</p>"}},
		{name: "attributes preserved", input: `<p class="lead">A</p><h2>B</h2>`, want: []string{`<p class="lead">A</p>`, "<h2>B</h2>"}},
		{name: "nested markup kept inside block", input: "<p>A <b>bold</b></p>", want: []string{"<p>A <b>bold</b></p>"}},
		{name: "html marker without elements", input: "text mentioning <img", want: []string{"text mentioning <img"}},
		{name: "empty input", input: "", want: []string{""}},
		{name: "whitespace input", input: "   ", want: []string{""}},
		{name: "newlines only", input: "\n\n\n", want: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDraftString(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromDraftString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestDraftRoundTripPlaintext verifies that plaintext bodies survive a trip
// through the studio with the same non-empty trimmed segments.
func TestDraftRoundTripPlaintext(t *testing.T) {
	bodies := [][]string{
		{"Hello", "World"},
		{"  padded  ", "", "next"},
		{"one"},
		{"Tokyo trends", "Shibuya crossing", "Harajuku"},
	}

	for _, body := range bodies {
		var want []string
		for _, p := range body {
			if p = strings.TrimSpace(p); p != "" {
				want = append(want, p)
			}
		}
		got := FromDraftString(ToDraftString(body))
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip of %q = %q, want %q", body, got, want)
		}
	}
}

// TestDraftRoundTripHTML verifies that well-formed single-block HTML bodies
// come back with the same length and outer HTML.
func TestDraftRoundTripHTML(t *testing.T) {
	bodies := [][]string{
		{"<p>A</p>", "<p>B</p>"},
		{"<p>One</p>", "<h2>Two</h2>", "<p><b>three</b> <i>four</i></p>"},
		{`<p><img src="https://cdn.example.com/a.png" alt="a"/></p>`},
		{`<h2>Title</h2>`, `<p><span style="font-size: 18px">big</span></p>`},
	}

	for _, body := range bodies {
		draft := ToDraftString(body)
		if draft != strings.Join(body, "") {
			t.Errorf("ToDraftString(%q) = %q, want concatenation", body, draft)
		}
		got := FromDraftString(draft)
		if !reflect.DeepEqual(got, body) {
			t.Errorf("round trip of %q = %q", body, got)
		}
	}
}

func TestFromDraftStringNeverEmpty(t *testing.T) {
	inputs := []string{"", " ", "\n", "\t\r\n", "<p", "<img", "<p></p>"}
	for _, in := range inputs {
		if got := FromDraftString(in); len(got) == 0 {
			t.Errorf("FromDraftString(%q) returned an empty slice", in)
		}
	}
}
