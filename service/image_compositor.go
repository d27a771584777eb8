package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"
)

const defaultJPEGQuality = 90

// ImageCompositor concatenates uploaded images horizontally
type ImageCompositor struct {
	jpegQuality int
}

// NewImageCompositor creates a new ImageCompositor
// A quality outside 1..100 falls back to the default
func NewImageCompositor(jpegQuality int) *ImageCompositor {
	if jpegQuality < 1 || jpegQuality > 100 {
		jpegQuality = defaultJPEGQuality
	}
	return &ImageCompositor{jpegQuality: jpegQuality}
}

// Compose decodes every image and pastes them left to right at y=0, unscaled.
// The result is as wide as the sum of widths and as tall as the tallest image.
// Any undecodable image aborts the whole batch.
func (c *ImageCompositor) Compose(images [][]byte) (*image.NRGBA, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	decoded := make([]image.Image, 0, len(images))
	totalWidth, maxHeight := 0, 0
	for i, data := range images {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: image %d: %v", ErrInvalidImage, i, err)
		}
		bounds := img.Bounds()
		totalWidth += bounds.Dx()
		if bounds.Dy() > maxHeight {
			maxHeight = bounds.Dy()
		}
		decoded = append(decoded, img)
	}

	composite := imaging.New(totalWidth, maxHeight, color.Black)
	xOffset := 0
	for _, img := range decoded {
		composite = imaging.Paste(composite, img, image.Pt(xOffset, 0))
		xOffset += img.Bounds().Dx()
	}

	// The composite is RGB: alpha from transparent sources is dropped, colour channels kept
	for i := 3; i < len(composite.Pix); i += 4 {
		composite.Pix[i] = 0xff
	}

	log.Printf("🧩 Composite image built: %d images, %dx%d", len(decoded), totalWidth, maxHeight)
	return composite, nil
}

// ComposeJPEG composes the images and encodes the result as JPEG
func (c *ImageCompositor) ComposeJPEG(images [][]byte) ([]byte, error) {
	composite, err := c.Compose(images)
	if err != nil {
		return nil, err
	}
	return EncodeJPEG(composite, c.jpegQuality)
}

// EncodeJPEG encodes an image as JPEG with the given quality
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
