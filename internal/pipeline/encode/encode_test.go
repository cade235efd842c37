// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package encode

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pagePNG(t *testing.T, width, height int, fill color.Color) []byte {
	t.Helper()
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			canvas.Set(x, y, fill)
		}
	}
	var buffer bytes.Buffer
	require.NoError(t, png.Encode(&buffer, canvas))
	return buffer.Bytes()
}

func TestDeliveryKeepsResolution(t *testing.T) {
	encoder := New(Options{})
	master := pagePNG(t, 320, 480, color.RGBA{R: 200, G: 30, B: 30, A: 255})

	data, err := encoder.Delivery(master)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 320, decoded.Bounds().Dx())
	assert.Equal(t, 480, decoded.Bounds().Dy())
}

func TestDeliveryFlattensTransparency(t *testing.T) {
	encoder := New(Options{})
	master := pagePNG(t, 10, 10, color.RGBA{}) // fully transparent

	data, err := encoder.Delivery(master)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	r, g, b, _ := decoded.At(5, 5).RGBA()
	assert.Greater(t, r, uint32(0xF000), "transparent pixels should flatten to white")
	assert.Greater(t, g, uint32(0xF000))
	assert.Greater(t, b, uint32(0xF000))
}

func TestPreviewFrameSize(t *testing.T) {
	encoder := New(Options{})
	// Tall broadsheet page, much taller than the preview frame.
	master := pagePNG(t, 612, 1584, color.RGBA{R: 10, G: 10, B: 120, A: 255})

	data, err := encoder.Preview(master)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, PreviewWidth, decoded.Bounds().Dx())
	assert.Equal(t, PreviewHeight, decoded.Bounds().Dy())

	// Letterbox margins on a tall page are white.
	r, g, b, _ := decoded.At(2, PreviewHeight/2).RGBA()
	assert.Greater(t, r, uint32(0xF000))
	assert.Greater(t, g, uint32(0xF000))
	assert.Greater(t, b, uint32(0xF000))
}

func TestDeliveryRejectsNonPNG(t *testing.T) {
	encoder := New(Options{})
	_, err := encoder.Delivery([]byte("not a png"))
	require.Error(t, err)
}

func TestFitRectCentered(t *testing.T) {
	// Square page in a wide frame: pillarboxed and centered.
	rect := fitRect(image.Rect(0, 0, 100, 100), 1200, 630)
	assert.Equal(t, 630, rect.Dx())
	assert.Equal(t, 630, rect.Dy())
	assert.Equal(t, (1200-630)/2, rect.Min.X)
	assert.Equal(t, 0, rect.Min.Y)
}
