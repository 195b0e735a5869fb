// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging sniffs and downscales images uploaded from the studio
// editor before they reach object storage. Wide images are resized to a
// maximum width; anything already small enough passes through untouched.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// jpegQuality is the quality used when re-encoding resized JPEGs.
	jpegQuality = 82

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

var (
	ErrUnsupportedType = errors.New("imaging: unsupported image type")
	ErrTooLarge        = errors.New("imaging: image dimensions too large")
)

// AllowedTypes are the MIME types accepted for inline images.
var AllowedTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// resizable are the types Downscale re-encodes. GIF keeps its animation and
// SVG is vector.
var resizable = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// DetectContentType sniffs data. SVGs are recognised from the file name
// because the sniffer reports them as XML or text.
func DetectContentType(data []byte, filename string) string {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if strings.HasSuffix(strings.ToLower(filename), ".svg") &&
		(strings.Contains(ct, "xml") || strings.Contains(ct, "text/plain")) {
		ct = "image/svg+xml"
	}
	return ct
}

// Extension returns a file extension for known image types.
func Extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ""
	}
}

// Result is the output of Downscale.
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	Resized     bool
}

// Downscale shrinks an image wider than maxWidth, preserving aspect ratio.
// JPEGs stay JPEG; PNG and WebP become PNG to keep transparency. Images
// that are narrow enough, or of a type that is not resized, are returned
// as is.
func Downscale(data []byte, contentType string, maxWidth int) (*Result, error) {
	if !AllowedTypes[contentType] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	same := &Result{Data: data, ContentType: contentType}
	if !resizable[contentType] || maxWidth <= 0 {
		return same, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	same.Width, same.Height = cfg.Width, cfg.Height
	if cfg.Width <= maxWidth {
		return same, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newHeight := max(1, int(float64(bounds.Dy())*ratio))

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	outType := "image/png"
	if contentType == "image/jpeg" {
		outType = "image/jpeg"
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	} else {
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("encode resized image: %w", err)
	}

	return &Result{
		Data:        buf.Bytes(),
		ContentType: outType,
		Width:       maxWidth,
		Height:      newHeight,
		Resized:     true,
	}, nil
}
