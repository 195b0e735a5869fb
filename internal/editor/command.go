// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"errors"
	"fmt"
)

// Command types accepted by Apply.
const (
	CmdInsertText = "insert_text"
	CmdDelete     = "delete"
	CmdSplit      = "split"
	CmdSpace      = "space"
	CmdBold       = "bold"
	CmdItalic     = "italic"
	CmdUnderline  = "underline"
	CmdHeading    = "heading"
	CmdParagraph  = "paragraph"
	CmdFontFamily = "font_family"
	CmdFontSize   = "font_size"
)

// ErrUnknownCommand is returned by Apply for an unrecognized command type.
var ErrUnknownCommand = errors.New("editor: unknown command")

// Command is the wire form of an editing command, as sent by the studio.
type Command struct {
	Type      string    `json:"type"`
	At        Position  `json:"at"`
	Selection Selection `json:"selection"`
	Text      string    `json:"text,omitempty"`
	Level     int       `json:"level,omitempty"`
	Value     string    `json:"value,omitempty"`
	Px        int       `json:"px,omitempty"`
}

// Apply runs one command and returns the caret afterwards.
func (e *Editor) Apply(cmd Command) (Position, error) {
	switch cmd.Type {
	case CmdInsertText:
		return e.InsertText(cmd.At, cmd.Text)
	case CmdDelete:
		return e.DeleteRange(cmd.Selection)
	case CmdSplit:
		return e.SplitBlock(cmd.At)
	case CmdSpace:
		pos, _, err := e.KeySpace(cmd.At)
		return pos, err
	case CmdBold:
		return cmd.Selection.Focus, e.ToggleBold(cmd.Selection)
	case CmdItalic:
		return cmd.Selection.Focus, e.ToggleItalic(cmd.Selection)
	case CmdUnderline:
		return cmd.Selection.Focus, e.ToggleUnderline(cmd.Selection)
	case CmdHeading:
		return cmd.At, e.SetHeading(cmd.At.Block, cmd.Level)
	case CmdParagraph:
		return cmd.At, e.SetParagraph(cmd.At.Block)
	case CmdFontFamily:
		return cmd.Selection.Focus, e.SetFontFamily(cmd.Selection, cmd.Value)
	case CmdFontSize:
		return cmd.Selection.Focus, e.SetFontSize(cmd.Selection, cmd.Px)
	default:
		return cmd.At, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
}
