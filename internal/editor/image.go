// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"fmt"
	"strings"
)

// ImageFile is an image picked by the user for insertion.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
	Alt         string
}

// UploadedImage is where an uploaded image can be fetched from.
type UploadedImage struct {
	URL  string
	Path string
}

// Uploader stores images inserted into the editor.
type Uploader interface {
	UploadImage(ctx context.Context, file ImageFile) (*UploadedImage, error)
}

// UploaderFunc adapts a function to the Uploader interface.
type UploaderFunc func(ctx context.Context, file ImageFile) (*UploadedImage, error)

// UploadImage calls f.
func (f UploaderFunc) UploadImage(ctx context.Context, file ImageFile) (*UploadedImage, error) {
	return f(ctx, file)
}

// InsertImage uploads file and inserts an image block at the caret, or at
// the end of the document when caret is nil. The upload happens first: if
// it fails the document is left untouched and no change is emitted.
// Returns the position of the new image block.
func (e *Editor) InsertImage(ctx context.Context, file ImageFile, caret *Position) (Position, error) {
	if err := e.ready(); err != nil {
		return Position{}, err
	}
	if e.uploader == nil {
		return Position{}, ErrNoUploader
	}
	if caret != nil && !e.doc.valid(*caret) {
		return *caret, ErrOutOfRange
	}

	uploaded, err := e.uploader.UploadImage(ctx, file)
	if err != nil {
		return Position{}, fmt.Errorf("upload editor image: %w", err)
	}

	alt := file.Alt
	if alt == "" {
		alt = strings.TrimSuffix(file.Name, extOf(file.Name))
	}
	img := Block{Kind: BlockImage, Image: &ImageRef{Src: uploaded.URL, Alt: alt}}

	d := e.doc
	var at int
	switch {
	case caret == nil:
		at = len(d.Blocks)
		// Replace a lone empty paragraph rather than appending after it.
		if at == 1 && d.Blocks[0].Kind == BlockParagraph && len(d.Blocks[0].Runs) == 0 {
			d.Blocks = nil
			at = 0
		}
		d.insertBlocks(at, img)
	case d.Blocks[caret.Block].Kind == BlockImage:
		at = caret.Block + caret.Offset
		d.insertBlocks(at, img)
	default:
		b := d.Blocks[caret.Block]
		head, tail := splitRunsAt(b.Runs, caret.Offset)
		switch {
		case caret.Offset == 0:
			at = caret.Block
			d.insertBlocks(at, img)
		case len(tail) == 0:
			at = caret.Block + 1
			d.insertBlocks(at, img)
		default:
			d.Blocks[caret.Block].Runs = normalizeRuns(head)
			at = caret.Block + 1
			d.insertBlocks(at, img, Block{Kind: b.Kind, Level: b.Level, Runs: normalizeRuns(tail)})
		}
	}

	e.emit()
	return Position{Block: at}, nil
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i:]
	}
	return ""
}
