package service

import (
	"bytes"
	"fmt"
	"image"
	"log"

	"github.com/disintegration/imaging"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
)

// Preview sizes accepted by OptimizeImage
const (
	SizeThumb  = "thumb"
	SizeMedium = "medium"
	SizeFull   = "full"
)

// OptimizeImage returns a JPEG preview of the composite image
// imageData: raw image bytes (PNG, JPEG, etc.)
// size: "thumb", "medium" or "full"; "full" and "" return imageData untouched
// Wide composites are bounded by their largest dimension, aspect ratio kept
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	if size == "" || size == SizeFull {
		return imageData, nil
	}

	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	var maxDim, quality int
	switch size {
	case SizeThumb:
		maxDim = maxSizeThumb
		quality = qualityThumb
	case SizeMedium:
		maxDim = maxSizeMedium
		quality = qualityMedium
	default:
		maxDim = maxSizeMedium
		quality = qualityMedium
		log.Printf("⚠️  Unknown size '%s', defaulting to medium", size)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var resized image.Image = img
	if width > maxDim || height > maxDim {
		if width > height {
			resized = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
		} else {
			resized = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
		}
		log.Printf("🔄 Resizing %s preview: %dx%d -> %dx%d", format, width, height, resized.Bounds().Dx(), resized.Bounds().Dy())
	}

	return EncodeJPEG(resized, quality)
}
