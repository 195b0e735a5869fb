// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"contentstudio/internal/imaging"
	"contentstudio/internal/metrics"
	"contentstudio/internal/storage"
)

const (
	// multipartMemory is how much of a multipart form is held in memory
	// before spilling to temporary files.
	multipartMemory = 8 << 20

	// formOverhead is allowed on top of the file size for the other fields.
	formOverhead = 64 << 10
)

// errFileTooLarge is returned by readUpload when the file exceeds the limit.
var errFileTooLarge = errors.New("file too large")

// readUpload parses the multipart form and reads the "file" field into
// memory. Temporary form files are removed before it returns.
func (s *Studio) readUpload(w http.ResponseWriter, r *http.Request) (storage.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+formOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return storage.File{}, errFileTooLarge
		}
		return storage.File{}, fmt.Errorf("parse upload form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	f, header, err := r.FormFile("file")
	if err != nil {
		return storage.File{}, fmt.Errorf("read upload field: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.maxUploadBytes+1))
	if err != nil {
		return storage.File{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return storage.File{}, errFileTooLarge
	}

	return storage.File{
		Name:        header.Filename,
		ContentType: imaging.DetectContentType(data, header.Filename),
		Data:        data,
	}, nil
}

// writeUploadError maps upload failures to a status and a banner message.
func (s *Studio) writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File too large. Maximum size is %d MB.", s.maxUploadBytes>>20))
	case errors.Is(err, imaging.ErrUnsupportedType):
		writeError(w, http.StatusUnsupportedMediaType, "Only JPEG, PNG, GIF and WebP images are accepted.")
	case errors.Is(err, imaging.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Image dimensions are too large.")
	case errors.Is(err, storage.ErrInvalidTarget):
		writeError(w, http.StatusBadRequest, "Invalid upload target.")
	case errors.Is(err, storage.ErrEmptyFile):
		writeError(w, http.StatusBadRequest, "The file is empty.")
	default:
		slog.Error("upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Upload failed.")
	}
}

// Upload stores an image under {collection}/{entity_id}/{asset_type}.
func (s *Studio) Upload(w http.ResponseWriter, r *http.Request) {
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

	target := storage.UploadTarget{
		Collection: strings.TrimSpace(r.FormValue("collection")),
		EntityID:   strings.TrimSpace(r.FormValue("entity_id")),
		AssetType:  strings.TrimSpace(r.FormValue("asset_type")),
	}
	res, err := s.uploader.Upload(r.Context(), file, target)
	if err != nil {
		s.writeUploadError(w, err)
		return
	}

	metrics.UploadBytes.Add(float64(res.Size))
	slog.Info("file uploaded", "path", res.Path, "size", res.Size, "by", subject(r))
	writeJSON(w, http.StatusCreated, res)
}

type removeUploadInput struct {
	URL string `json:"url"`
}

// DeleteUpload removes a previously uploaded file by its public URL. URLs
// outside the configured bucket are accepted and left alone.
func (s *Studio) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	if s.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}
	var in removeUploadInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.URL = strings.TrimSpace(in.URL)
	if in.URL == "" {
		writeError(w, http.StatusBadRequest, "A file URL is required.")
		return
	}

	if err := s.uploader.Remove(r.Context(), in.URL); err != nil {
		slog.Error("remove upload failed", "url", in.URL, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to remove the file.")
		return
	}
	slog.Info("file removed", "url", in.URL, "by", subject(r))
	w.WriteHeader(http.StatusNoContent)
}
