package service

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solidJPEG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))
	return buf.Bytes()
}

func TestComposeDimensionsAndOffsets(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	compositor := NewImageCompositor(90)
	out, err := compositor.Compose([][]byte{
		solidPNG(t, 10, 20, red),
		solidPNG(t, 5, 40, green),
		solidPNG(t, 7, 8, blue),
	})
	require.NoError(t, err)

	assert.Equal(t, 22, out.Bounds().Dx())
	assert.Equal(t, 40, out.Bounds().Dy())

	// each source sits unscaled at the cumulative x-offset, y=0
	assert.Equal(t, red, out.NRGBAAt(0, 0))
	assert.Equal(t, red, out.NRGBAAt(9, 19))
	assert.Equal(t, green, out.NRGBAAt(10, 0))
	assert.Equal(t, green, out.NRGBAAt(14, 39))
	assert.Equal(t, blue, out.NRGBAAt(15, 0))
	assert.Equal(t, blue, out.NRGBAAt(21, 7))

	// area below shorter images is black
	assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(0, 20))
	assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(21, 8))
}

func TestComposeMixedFormats(t *testing.T) {
	compositor := NewImageCompositor(0)
	out, err := compositor.Compose([][]byte{
		solidJPEG(t, 16, 16, color.White),
		solidPNG(t, 8, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255}),
	})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 24, 16), out.Bounds())
}

func TestComposeDropsAlpha(t *testing.T) {
	compositor := NewImageCompositor(90)
	out, err := compositor.Compose([][]byte{solidPNG(t, 2, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 0})})
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 255}, out.NRGBAAt(1, 1))
}

func TestComposeInvalidImage(t *testing.T) {
	compositor := NewImageCompositor(90)
	out, err := compositor.Compose([][]byte{
		solidPNG(t, 2, 2, color.White),
		[]byte("definitely not an image"),
	})
	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidImage))
	assert.Contains(t, err.Error(), "image 1")
}

func TestComposeNoImages(t *testing.T) {
	_, err := NewImageCompositor(90).Compose(nil)
	assert.ErrorIs(t, err, ErrNoImages)
}

func TestComposeDoesNotMutateInputs(t *testing.T) {
	input := solidPNG(t, 3, 3, color.White)
	original := append([]byte(nil), input...)
	_, err := NewImageCompositor(90).Compose([][]byte{input, input})
	require.NoError(t, err)
	assert.Equal(t, original, input)
}

func TestComposeJPEG(t *testing.T) {
	data, err := NewImageCompositor(80).ComposeJPEG([][]byte{
		solidPNG(t, 4, 6, color.White),
		solidPNG(t, 6, 3, color.White),
	})
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, image.Rect(0, 0, 10, 6), img.Bounds())
}
