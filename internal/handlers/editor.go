// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"contentstudio/internal/cache"
	"contentstudio/internal/editor"
	"contentstudio/internal/metrics"
	"contentstudio/internal/storage"
)

// maxEditorCommands caps the commands replayed in one request.
const maxEditorCommands = 500

// editorState is what the studio receives after every editor round trip.
type editorState struct {
	HTML     string              `json:"html"`
	Caret    editor.Position     `json:"caret"`
	Toolbar  editor.ToolbarState `json:"toolbar"`
	Document *editor.Document    `json:"document"`
}

func stateOf(ed *editor.Editor, caret editor.Position) (editorState, error) {
	tb, err := ed.Toolbar(caret)
	if err != nil {
		return editorState{}, err
	}
	return editorState{HTML: ed.HTML(), Caret: caret, Toolbar: tb, Document: ed.Document()}, nil
}

// editorInput carries either a stored value to mount (html) or the document
// returned by a previous round trip. The document wins when both are sent.
type editorInput struct {
	HTML     string           `json:"html"`
	Document *editor.Document `json:"document"`
	Caret    editor.Position  `json:"caret"`
	Commands []editor.Command `json:"commands"`
}

// openEditor starts an editor from a previous document or, on first load, from
// the stored HTML value.
func openEditor(ed *editor.Editor, doc *editor.Document, html string) {
	if doc != nil {
		ed.Load(doc)
		return
	}
	ed.Mount(html)
}

// Edit loads the submitted state, replays the commands in order and
// returns the resulting markup with the toolbar state at the final caret.
func (s *Studio) Edit(w http.ResponseWriter, r *http.Request) {
	var in editorInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(in.Commands) > maxEditorCommands {
		writeError(w, http.StatusBadRequest, "Too many editor commands (max 500).")
		return
	}

	ed := editor.New(nil)
	openEditor(ed, in.Document, in.HTML)

	caret := in.Caret
	for i, cmd := range in.Commands {
		pos, err := ed.Apply(cmd)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Command %d (%s): %s", i, cmd.Type, editorMessage(err)))
			return
		}
		caret = pos
	}

	st, err := stateOf(ed, caret)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Caret: "+editorMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// EditorImage uploads an image and inserts it into the submitted value at
// the caret, or at the end when no caret is sent. The form carries html or
// a JSON document, an optional JSON caret, entity_id and alt next to the file.
func (s *Studio) EditorImage(w http.ResponseWriter, r *http.Request) {
	if s.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}

	file, err := s.readUpload(w, r)
	if err != nil {
		if !errors.Is(err, errFileTooLarge) {
			writeError(w, http.StatusBadRequest, "A file field is required.")
			return
		}
		s.writeUploadError(w, err)
		return
	}

	var caret *editor.Position
	if raw := strings.TrimSpace(r.FormValue("caret")); raw != "" {
		caret = &editor.Position{}
		if err := json.Unmarshal([]byte(raw), caret); err != nil {
			writeError(w, http.StatusBadRequest, "Caret must be a JSON position.")
			return
		}
	}

	var doc *editor.Document
	if raw := strings.TrimSpace(r.FormValue("document")); raw != "" {
		doc = &editor.Document{}
		if err := json.Unmarshal([]byte(raw), doc); err != nil {
			writeError(w, http.StatusBadRequest, "Document must be a JSON editor document.")
			return
		}
	}

	entityID := strings.TrimSpace(r.FormValue("entity_id"))
	if entityID == "" {
		entityID = cache.NewEntryDraftID
	}
	target := storage.UploadTarget{Collection: "entries", EntityID: entityID, AssetType: "inline"}

	var uploaded *storage.UploadResult
	ed := editor.New(editor.UploaderFunc(func(ctx context.Context, img editor.ImageFile) (*editor.UploadedImage, error) {
		res, err := s.uploader.Upload(ctx, storage.File{Name: img.Name, ContentType: img.ContentType, Data: img.Data}, target)
		if err != nil {
			return nil, err
		}
		uploaded = res
		return &editor.UploadedImage{URL: res.DownloadURL, Path: res.Path}, nil
	}))
	openEditor(ed, doc, r.FormValue("html"))

	pos, err := ed.InsertImage(r.Context(), editor.ImageFile{
		Name:        file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
		Alt:         strings.TrimSpace(r.FormValue("alt")),
	}, caret)
	if err != nil {
		if errors.Is(err, editor.ErrOutOfRange) {
			writeError(w, http.StatusBadRequest, "Caret: "+editorMessage(err))
			return
		}
		s.writeUploadError(w, err)
		return
	}

	metrics.UploadBytes.Add(float64(uploaded.Size))
	slog.Info("editor image inserted", "path", uploaded.Path, "by", subject(r))

	st, err := stateOf(ed, pos)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Caret: "+editorMessage(err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"editor": st,
		"upload": uploaded,
	})
}

// editorMessage strips the package prefix from editor errors.
func editorMessage(err error) string {
	return strings.TrimPrefix(err.Error(), "editor: ")
}
