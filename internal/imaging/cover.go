// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging prepares uploaded cover images and checks image hosts.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Cover dimensions (16:9).
const (
	CoverWidth  = 1600
	CoverHeight = 900
	jpegQuality = 90
	// MaxPixels bounds the decoded size of an upload (40 megapixels).
	MaxPixels = 40_000_000
)

var (
	// ErrUnsupportedFormat is returned for anything other than JPEG, PNG, GIF or WebP.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooLarge is returned when the upload exceeds the size limit.
	ErrTooLarge = errors.New("image exceeds upload size limit")
	// ErrTooManyPixels is returned when the image dimensions exceed MaxPixels.
	ErrTooManyPixels = fmt.Errorf("%w: more than %d pixels", ErrTooLarge, MaxPixels)
)

// Cover is a prepared cover image ready for upload.
type Cover struct {
	Data        []byte
	ContentType string
	Filename    string
	Width       int
	Height      int
}

// PrepareCover decodes an uploaded image, applies its EXIF orientation,
// crops it to a 16:9 cover around the centre and re-encodes it. PNG input
// stays PNG; everything else becomes JPEG.
func PrepareCover(r io.Reader, filename string, maxBytes int64) (Cover, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return Cover{}, fmt.Errorf("reading image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return Cover{}, ErrTooLarge
	}

	format := detectFormat(data)
	if format == "" {
		return Cover{}, ErrUnsupportedFormat
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Cover{}, fmt.Errorf("reading image header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Cover{}, ErrTooManyPixels
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Cover{}, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	cover := imaging.Fill(img, CoverWidth, CoverHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	contentType := "image/jpeg"
	ext := ".jpg"
	if format == "png" {
		contentType, ext = "image/png", ".png"
		err = png.Encode(&buf, cover)
	} else {
		err = jpeg.Encode(&buf, cover, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return Cover{}, fmt.Errorf("encoding image: %w", err)
	}

	return Cover{
		Data:        buf.Bytes(),
		ContentType: contentType,
		Filename:    coverFilename(filename, ext),
		Width:       CoverWidth,
		Height:      CoverHeight,
	}, nil
}

func coverFilename(name, ext string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "cover"
	}
	return base + ext
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// TIFF is rejected outright (CVE-2023-36308 in disintegration/imaging).
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// readExifOrientation returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes the camera rotation recorded in EXIF.
// Orientation values:
// 1: Normal
// 2: Flip horizontal
// 3: Rotate 180°
// 4: Flip vertical
// 5: Rotate 90° CW + flip horizontal
// 6: Rotate 90° CW
// 7: Rotate 90° CCW + flip horizontal
// 8: Rotate 90° CCW
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
