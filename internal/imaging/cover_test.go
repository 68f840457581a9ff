// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestPrepareCover_PNG(t *testing.T) {
	data := encodePNG(t, createTestImage(300, 400))

	c, err := PrepareCover(bytes.NewReader(data), "holiday photo.png", 1<<20)
	if err != nil {
		t.Fatalf("PrepareCover() error = %v", err)
	}
	if c.ContentType != "image/png" || c.Filename != "holiday photo.png" {
		t.Errorf("got %q %q", c.ContentType, c.Filename)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(c.Data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != "png" || cfg.Width != CoverWidth || cfg.Height != CoverHeight {
		t.Errorf("output = %s %dx%d, want png %dx%d", format, cfg.Width, cfg.Height, CoverWidth, CoverHeight)
	}
}

func TestPrepareCover_JPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(200, 100), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}

	c, err := PrepareCover(&buf, `C:\pics\cover.jpeg`, 1<<20)
	if err != nil {
		t.Fatalf("PrepareCover() error = %v", err)
	}
	if c.ContentType != "image/jpeg" || c.Filename != "cover.jpg" {
		t.Errorf("got %q %q", c.ContentType, c.Filename)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(c.Data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if float64(cfg.Width)/float64(cfg.Height) != 16.0/9.0 {
		t.Errorf("aspect = %dx%d, want 16:9", cfg.Width, cfg.Height)
	}
}

func TestPrepareCover_Rejects(t *testing.T) {
	pngData := encodePNG(t, createTestImage(10, 10))

	tests := []struct {
		name    string
		data    []byte
		max     int64
		wantErr error
	}{
		{"text", []byte("hello, not an image"), 1 << 20, ErrUnsupportedFormat},
		{"tiff", []byte("II*\x00\x08\x00\x00\x00"), 1 << 20, ErrUnsupportedFormat},
		{"too large", pngData, int64(len(pngData)) - 1, ErrTooLarge},
		{"too many pixels", pngHeader(12000, 12000), 1 << 20, ErrTooManyPixels},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PrepareCover(bytes.NewReader(tt.data), "x.png", tt.max)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("PrepareCover() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// pngHeader returns a PNG signature and IHDR chunk declaring w x h grayscale
// pixels. It is enough for image.DecodeConfig but carries no pixel data.
func pngHeader(w, h uint32) []byte {
	var ihdr bytes.Buffer
	ihdr.WriteString("IHDR")
	_ = binary.Write(&ihdr, binary.BigEndian, w)
	_ = binary.Write(&ihdr, binary.BigEndian, h)
	ihdr.Write([]byte{8, 0, 0, 0, 0}) // 8-bit gray, deflate, no filter, no interlace

	var out bytes.Buffer
	out.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&out, binary.BigEndian, uint32(ihdr.Len()-4))
	out.Write(ihdr.Bytes())
	_ = binary.Write(&out, binary.BigEndian, crc32.ChecksumIEEE(ihdr.Bytes()))
	return out.Bytes()
}

func TestPrepareCover_PixelLimitIsAlsoSizeLimit(t *testing.T) {
	_, err := PrepareCover(bytes.NewReader(pngHeader(10000, 5000)), "huge.png", 1<<20)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("PrepareCover() error = %v, want ErrTooLarge", err)
	}
}

func TestApplyOrientation(t *testing.T) {
	src := createTestImage(40, 20)
	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 40, 20},
		{3, 40, 20},
		{6, 20, 40},
		{8, 20, 40},
		{99, 40, 20},
	}
	for _, tt := range tests {
		b := applyOrientation(src, tt.orientation).Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("orientation %d: got %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestReadExifOrientation_NoExif(t *testing.T) {
	if got := readExifOrientation(bytes.NewReader(encodePNG(t, createTestImage(2, 2)))); got != 1 {
		t.Errorf("readExifOrientation() = %d, want 1", got)
	}
}

func TestHostPolicy(t *testing.T) {
	p := NewHostPolicy([]string{"res.cloudinary.com", " Images.Example.org "})

	tests := []struct {
		url  string
		want bool
	}{
		{"https://res.cloudinary.com/demo/image/upload/a.jpg", true},
		{"http://res.cloudinary.com/a.jpg", true},
		{"https://images.example.org/a.png", true},
		{"https://evil.com/a.jpg", false},
		{"https://res.cloudinary.com.evil.com/a.jpg", false},
		{"javascript:alert(1)", false},
		{"/relative/a.jpg", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := p.Check(tt.url) == nil; got != tt.want {
			t.Errorf("Check(%q) allowed = %v, want %v", tt.url, got, tt.want)
		}
	}
}
