// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"errors"
	"testing"
)

// mounted returns an editor loaded with initial and a pointer to the list
// of emitted changes.
func mounted(t *testing.T, initial string) (*Editor, *[]string) {
	t.Helper()
	e := New(nil)
	if !e.Mount(initial) {
		t.Fatal("Mount returned false on first call")
	}
	var changes []string
	e.SetOnChange(func(html string) { changes = append(changes, html) })
	return e, &changes
}

func sel(b1, o1, b2, o2 int) Selection {
	return Selection{Anchor: Position{Block: b1, Offset: o1}, Focus: Position{Block: b2, Offset: o2}}
}

func TestMount(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		want    string
	}{
		{"empty", "", "<p><br></p>"},
		{"whitespace", "  \n ", "<p><br></p>"},
		{"plaintext lines", "line one\n\nline two", "<p>line one</p><p>line two</p>"},
		{"html", "<p>Hello <b>world</b></p><h2>Title</h2>", "<p>Hello <b>world</b></p><h2>Title</h2>"},
		{"image", `<p><img src="/a.png" alt="A"></p>`, `<p><img src="/a.png" alt="A"></p>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(nil)
			e.Mount(tt.initial)
			if got := e.HTML(); got != tt.want {
				t.Errorf("HTML() = %q, want %q", got, tt.want)
			}
			if e.State() != StateInitialized {
				t.Errorf("State() = %v, want initialized", e.State())
			}
		})
	}
}

func TestMountRunsOnce(t *testing.T) {
	e, changes := mounted(t, "<p>first</p>")
	if e.Mount("<p>second</p>") {
		t.Error("second Mount returned true")
	}
	if got := e.HTML(); got != "<p>first</p>" {
		t.Errorf("HTML() = %q, want first value kept", got)
	}
	if len(*changes) != 0 {
		t.Errorf("mount emitted %d changes, want 0", len(*changes))
	}
}

func TestSetOnChangeKeepsContent(t *testing.T) {
	e, _ := mounted(t, "<p>Hello</p>")
	if _, err := e.InsertText(Position{Block: 0, Offset: 5}, "!"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}

	var got string
	e.SetOnChange(func(html string) { got = html })
	if e.HTML() != "<p>Hello!</p>" {
		t.Fatalf("content reset after SetOnChange: %q", e.HTML())
	}
	if _, err := e.InsertText(Position{Block: 0, Offset: 6}, "?"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if got != "<p>Hello!?</p>" {
		t.Errorf("new callback got %q", got)
	}
}

func TestNotMounted(t *testing.T) {
	e := New(nil)
	if _, err := e.InsertText(Position{}, "x"); !errors.Is(err, ErrNotMounted) {
		t.Errorf("err = %v, want ErrNotMounted", err)
	}
	if e.HTML() != "" {
		t.Errorf("HTML() before mount = %q", e.HTML())
	}
}

func TestInsertText(t *testing.T) {
	e, changes := mounted(t, "<p><b>Bold</b></p>")
	pos, err := e.InsertText(Position{Block: 0, Offset: 4}, "er")
	if err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if pos != (Position{Block: 0, Offset: 6}) {
		t.Errorf("caret = %+v", pos)
	}
	if got := e.HTML(); got != "<p><b>Bolder</b></p>" {
		t.Errorf("HTML() = %q", got)
	}
	if len(*changes) != 1 || e.State() != StateEditing {
		t.Errorf("changes = %d, state = %v", len(*changes), e.State())
	}

	if _, err := e.InsertText(Position{Block: 3}, "x"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
}

func TestKeySpace(t *testing.T) {
	tests := []struct {
		name      string
		typed     string
		converted bool
		want      string
	}{
		{"h1", "#", true, "<h1><br></h1>"},
		{"h2", "##", true, "<h2><br></h2>"},
		{"h3", "###", true, "<h3><br></h3>"},
		{"four hashes", "####", false, "<p>#### </p>"},
		{"not only hashes", "a#", false, "<p>a# </p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := mounted(t, "")
			pos, _ := e.InsertText(Position{}, tt.typed)
			_, converted, err := e.KeySpace(pos)
			if err != nil {
				t.Fatalf("KeySpace: %v", err)
			}
			if converted != tt.converted {
				t.Errorf("converted = %v, want %v", converted, tt.converted)
			}
			if got := e.HTML(); got != tt.want {
				t.Errorf("HTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeySpaceKeepsRest(t *testing.T) {
	e, _ := mounted(t, "##Title")
	if _, _, err := e.KeySpace(Position{Block: 0, Offset: 2}); err != nil {
		t.Fatal(err)
	}
	if got := e.HTML(); got != "<h2>Title</h2>" {
		t.Errorf("HTML() = %q", got)
	}
}

func TestToggleBold(t *testing.T) {
	e, changes := mounted(t, "Hello world")

	if err := e.ToggleBold(sel(0, 5, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if got := e.HTML(); got != "<p><b>Hello</b> world</p>" {
		t.Errorf("after bold: %q", got)
	}
	if err := e.ToggleBold(sel(0, 0, 0, 5)); err != nil {
		t.Fatal(err)
	}
	if got := e.HTML(); got != "<p>Hello world</p>" {
		t.Errorf("after unbold: %q", got)
	}

	before := len(*changes)
	if err := e.ToggleBold(sel(0, 3, 0, 3)); err != nil {
		t.Fatal(err)
	}
	if len(*changes) != before {
		t.Error("collapsed selection emitted a change")
	}
}

func TestToggleAcrossBlocks(t *testing.T) {
	e, _ := mounted(t, "<p>one</p><p>two</p>")
	if err := e.ToggleItalic(sel(0, 1, 1, 2)); err != nil {
		t.Fatal(err)
	}
	if got := e.HTML(); got != "<p>o<i>ne</i></p><p><i>tw</i>o</p>" {
		t.Errorf("HTML() = %q", got)
	}
	if err := e.ToggleUnderline(sel(0, 0, 0, 3)); err != nil {
		t.Fatal(err)
	}
	if got := e.HTML(); got != "<p><u>o</u><i><u>ne</u></i></p><p><i>tw</i>o</p>" {
		t.Errorf("HTML() = %q", got)
	}
}

func TestHeadingAndParagraph(t *testing.T) {
	e, _ := mounted(t, "Hello")
	if err := e.SetHeading(0, 7); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("err = %v, want ErrInvalidLevel", err)
	}
	if err := e.SetHeading(0, 1); err != nil {
		t.Fatal(err)
	}
	if got := e.HTML(); got != "<h1>Hello</h1>" {
		t.Errorf("HTML() = %q", got)
	}
	if err := e.SetParagraph(0); err != nil {
		t.Fatal(err)
	}
	if got := e.HTML(); got != "<p>Hello</p>" {
		t.Errorf("HTML() = %q", got)
	}
}

func TestFontCommands(t *testing.T) {
	e, _ := mounted(t, "Hello world")
	if err := e.SetFontSize(sel(0, 0, 0, 5), 24); err != nil {
		t.Fatal(err)
	}
	if got := e.HTML(); got != `<p><span style="font-size: 24px">Hello</span> world</p>` {
		t.Errorf("HTML() = %q", got)
	}
	if err := e.SetFontFamily(sel(0, 6, 0, 11), FontSerif); err != nil {
		t.Fatal(err)
	}
	want := `<p><span style="font-size: 24px">Hello</span> <span style="font-family: Georgia, serif">world</span></p>`
	if got := e.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}

	if err := e.SetFontFamily(sel(0, 0, 0, 1), "comic"); !errors.Is(err, ErrInvalidFontFamily) {
		t.Errorf("err = %v, want ErrInvalidFontFamily", err)
	}
	if err := e.SetFontSize(sel(0, 0, 0, 1), 200); !errors.Is(err, ErrInvalidFontSize) {
		t.Errorf("err = %v, want ErrInvalidFontSize", err)
	}
}

func TestSplitBlock(t *testing.T) {
	e, _ := mounted(t, "<h2>Hello world</h2>")
	pos, err := e.SplitBlock(Position{Block: 0, Offset: 5})
	if err != nil {
		t.Fatal(err)
	}
	if pos != (Position{Block: 1}) {
		t.Errorf("caret = %+v", pos)
	}
	if got := e.HTML(); got != "<h2>Hello</h2><p> world</p>" {
		t.Errorf("HTML() = %q", got)
	}
}

func TestDeleteRange(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		sel     Selection
		want    string
	}{
		{"within block", "<p>Hello world</p>", sel(0, 5, 0, 11), "<p>Hello</p>"},
		{"across blocks", "<p>Hello</p><p>World</p>", sel(1, 3, 0, 2), "<p>Held</p>"},
		{"image block", `<p>A</p><p><img src="/x.png" alt=""></p><p>B</p>`, sel(1, 0, 1, 1), "<p>A</p><p>B</p>"},
		{"whole document", "<p>A</p><p>B</p>", sel(0, 0, 1, 1), "<p><br></p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := mounted(t, tt.initial)
			if _, err := e.DeleteRange(tt.sel); err != nil {
				t.Fatal(err)
			}
			if got := e.HTML(); got != tt.want {
				t.Errorf("HTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	e, _ := mounted(t, "Hello")
	if _, err := e.Apply(Command{Type: CmdBold, Selection: sel(0, 0, 0, 5)}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Apply(Command{Type: CmdInsertText, At: Position{Offset: 5}, Text: "!"}); err != nil {
		t.Fatal(err)
	}
	if got := e.HTML(); got != "<p><b>Hello!</b></p>" {
		t.Errorf("HTML() = %q", got)
	}
	if _, err := e.Apply(Command{Type: "explode"}); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("err = %v, want ErrUnknownCommand", err)
	}
}

func TestDocumentIsCopy(t *testing.T) {
	e, _ := mounted(t, "Hello")
	doc := e.Document()
	doc.Blocks[0].Runs[0].Text = "changed"
	if e.HTML() != "<p>Hello</p>" {
		t.Error("Document() exposed internal state")
	}
}

func TestLoad(t *testing.T) {
	doc := &Document{Blocks: []Block{
		{Kind: "quote", Runs: []Run{{Text: "a"}, {Text: "b"}}},
		{Kind: BlockHeading, Level: 9, Runs: []Run{{Text: "T"}}},
		{Kind: BlockImage},
		{Kind: BlockHeading, Level: 1, Runs: []Run{{Text: "Title"}}},
	}}

	e := New(nil)
	if !e.Load(doc) {
		t.Fatal("Load returned false on first call")
	}
	if e.State() != StateInitialized {
		t.Errorf("state = %v, want initialized", e.State())
	}
	if got, want := e.HTML(), "<p>ab</p><h6>T</h6><h1>Title</h1>"; got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
	if e.Load(&Document{}) || e.Mount("<p>other</p>") {
		t.Error("second load was not suppressed")
	}

	doc.Blocks[0].Runs[0].Text = "changed"
	if got := e.Document().Blocks[0].Runs[0].Text; got != "ab" {
		t.Errorf("editor shares the loaded document: %q", got)
	}

	empty := New(nil)
	empty.Load(nil)
	if got := empty.HTML(); got != "<p><br></p>" {
		t.Errorf("Load(nil) HTML() = %q", got)
	}
}

func TestDeleteRangeBetweenBlocksAfterImage(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		emits   int
	}{
		{"two images", `<p><img src="/a.png" alt="A"></p><p><img src="/b.png" alt="B"></p>`, 0},
		{"image then heading", `<p><img src="/a.png" alt="A"></p><h3>Sub</h3>`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, changes := mounted(t, tt.initial)
			before := e.HTML()
			caret, err := e.DeleteRange(sel(0, 1, 1, 0))
			if err != nil {
				t.Fatal(err)
			}
			if got := e.HTML(); got != before {
				t.Errorf("HTML() = %q, want unchanged %q", got, before)
			}
			if len(*changes) != tt.emits {
				t.Errorf("changes = %d, want %d", len(*changes), tt.emits)
			}
			if !e.Document().valid(caret) {
				t.Errorf("caret %+v is not a valid position", caret)
			}
		})
	}
}
