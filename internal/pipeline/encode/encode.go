// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

/*
Package encode produces the web delivery variants of a rasterized page.

Two derivatives exist per page: a full-size JPEG for reader delivery and a
fixed-frame social preview card. Derivative failures never affect the
lossless PNG master, which stays the source of truth.
*/
package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// Preview card frame, the standard open-graph aspect.
const (
	PreviewWidth  = 1200
	PreviewHeight = 630
)

// Encoder renders page derivatives from lossless PNG masters.
type Encoder struct {
	deliveryQuality int
	previewQuality  int
	previewWidth    int
	previewHeight   int
}

// Options configures an [Encoder]. Zero values fall back to defaults.
type Options struct {
	DeliveryQuality int
	PreviewQuality  int
	PreviewWidth    int
	PreviewHeight   int
}

// New constructs an [Encoder].
func New(opts Options) *Encoder {
	encoder := &Encoder{
		deliveryQuality: opts.DeliveryQuality,
		previewQuality:  opts.PreviewQuality,
		previewWidth:    opts.PreviewWidth,
		previewHeight:   opts.PreviewHeight,
	}
	if encoder.deliveryQuality <= 0 || encoder.deliveryQuality > 100 {
		encoder.deliveryQuality = 80
	}
	if encoder.previewQuality <= 0 || encoder.previewQuality > 100 {
		encoder.previewQuality = 85
	}
	if encoder.previewWidth <= 0 {
		encoder.previewWidth = PreviewWidth
	}
	if encoder.previewHeight <= 0 {
		encoder.previewHeight = PreviewHeight
	}
	return encoder
}

/*
Delivery transcodes a lossless page PNG into the reader-facing JPEG.

Description: Decodes the master, flattens any transparency onto white
(JPEG has no alpha channel) and re-encodes at delivery quality without
resizing.

Parameters:
  - master: []byte (the lossless PNG page)

Returns:
  - []byte: JPEG bytes at full page resolution
  - error: Decode or encode failures
*/
func (encoder *Encoder) Delivery(master []byte) ([]byte, error) {
	source, err := decodePNG(master)
	if err != nil {
		return nil, err
	}

	flattened := flattenOnWhite(source)

	var buffer bytes.Buffer
	if err := jpeg.Encode(&buffer, flattened, &jpeg.Options{Quality: encoder.deliveryQuality}); err != nil {
		return nil, fmt.Errorf("encode: delivery jpeg failed: %w", err)
	}
	return buffer.Bytes(), nil
}

/*
Preview renders the social share card for a page.

Description: Scales the page to fit inside the preview frame while keeping
its aspect ratio, centers it on a white canvas and encodes the result as a
JPEG at preview quality. Front pages shared on social platforms use this
variant.

Parameters:
  - master: []byte (the lossless PNG page)

Returns:
  - []byte: JPEG bytes at the fixed preview frame size
  - error: Decode or encode failures
*/
func (encoder *Encoder) Preview(master []byte) ([]byte, error) {
	source, err := decodePNG(master)
	if err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, encoder.previewWidth, encoder.previewHeight))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)

	target := fitRect(source.Bounds(), encoder.previewWidth, encoder.previewHeight)
	xdraw.CatmullRom.Scale(canvas, target, source, source.Bounds(), xdraw.Over, nil)

	var buffer bytes.Buffer
	if err := jpeg.Encode(&buffer, canvas, &jpeg.Options{Quality: encoder.previewQuality}); err != nil {
		return nil, fmt.Errorf("encode: preview jpeg failed: %w", err)
	}
	return buffer.Bytes(), nil
}

func decodePNG(data []byte) (image.Image, error) {
	source, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("encode: failed to decode page master: %w", err)
	}
	if source.Bounds().Dx() == 0 || source.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("encode: page master has empty bounds")
	}
	return source, nil
}

// flattenOnWhite composites src over a white background.
func flattenOnWhite(source image.Image) image.Image {
	bounds := source.Bounds()
	flattened := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(flattened, flattened.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	xdraw.Draw(flattened, flattened.Bounds(), source, bounds.Min, xdraw.Over)
	return flattened
}

// fitRect returns the centered rectangle that fits source bounds into a
// frameWidth x frameHeight frame without changing the aspect ratio.
func fitRect(source image.Rectangle, frameWidth, frameHeight int) image.Rectangle {
	sourceWidth := source.Dx()
	sourceHeight := source.Dy()

	scaledWidth := frameWidth
	scaledHeight := sourceHeight * frameWidth / sourceWidth
	if scaledHeight > frameHeight {
		scaledHeight = frameHeight
		scaledWidth = sourceWidth * frameHeight / sourceHeight
	}

	offsetX := (frameWidth - scaledWidth) / 2
	offsetY := (frameHeight - scaledHeight) / 2
	return image.Rect(offsetX, offsetY, offsetX+scaledWidth, offsetY+scaledHeight)
}
