// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"contentstudio/internal/imaging"
)

// ErrInvalidTarget is returned when an upload target has an unsafe or
// missing path segment.
var ErrInvalidTarget = errors.New("storage: invalid upload target")

// ErrEmptyFile is returned for zero-byte uploads.
var ErrEmptyFile = errors.New("storage: empty file")

// segmentPattern restricts target segments so they cannot escape their prefix.
var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,99}$`)

// ObjectStore is the subset of the S3 client used for uploads.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
	KeyFromURL(rawURL string) (string, bool)
}

// File is an uploaded file held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadTarget says where a file belongs: which collection, which entity
// in it, and what kind of asset it is.
type UploadTarget struct {
	Collection string `json:"collection"`
	EntityID   string `json:"entity_id"`
	AssetType  string `json:"asset_type"`
}

// Prefix returns the object key prefix for the target.
func (t UploadTarget) Prefix() string {
	return t.Collection + "/" + t.EntityID + "/" + t.AssetType
}

func (t UploadTarget) validate() error {
	for _, seg := range []string{t.Collection, t.EntityID, t.AssetType} {
		if !segmentPattern.MatchString(seg) {
			return fmt.Errorf("%w: %q", ErrInvalidTarget, seg)
		}
	}
	return nil
}

// UploadResult is where an uploaded file can be fetched from.
type UploadResult struct {
	DownloadURL string `json:"download_url"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// Uploader stores files under {collection}/{entityID}/{assetType}/{uuid}{ext}.
// Images wider than MaxWidth are downscaled first.
type Uploader struct {
	objects  ObjectStore
	maxWidth int
}

// NewUploader creates an uploader. maxWidth <= 0 disables downscaling.
func NewUploader(objects ObjectStore, maxWidth int) *Uploader {
	return &Uploader{objects: objects, maxWidth: maxWidth}
}

// Upload validates, optionally downscales, and stores file.
func (u *Uploader) Upload(ctx context.Context, file File, target UploadTarget) (*UploadResult, error) {
	if err := target.validate(); err != nil {
		return nil, err
	}
	if len(file.Data) == 0 {
		return nil, ErrEmptyFile
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = imaging.DetectContentType(file.Data, file.Name)
	}

	img, err := imaging.Downscale(file.Data, contentType, u.maxWidth)
	if err != nil {
		return nil, fmt.Errorf("prepare upload: %w", err)
	}
	if img.Resized {
		slog.Debug("upload downscaled", "name", file.Name, "width", img.Width, "height", img.Height)
	}

	ext := imaging.Extension(img.ContentType)
	if ext == "" {
		ext = strings.ToLower(path.Ext(file.Name))
	}
	key := target.Prefix() + "/" + uuid.NewString() + ext

	if err := u.objects.Put(ctx, key, img.ContentType, img.Data); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	return &UploadResult{
		DownloadURL: u.objects.URL(key),
		Path:        key,
		ContentType: img.ContentType,
		Size:        len(img.Data),
	}, nil
}

// Remove deletes a previously uploaded file given its public URL. URLs
// that do not belong to this storage are ignored.
func (u *Uploader) Remove(ctx context.Context, rawURL string) error {
	key, ok := u.objects.KeyFromURL(rawURL)
	if !ok {
		return nil
	}
	return u.objects.Delete(ctx, key)
}
