// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package clip

import (
	"fmt"

	"github.com/patrikahq/patrika/internal/platform/apperr"
)

// # Geometric Validation
//
// Clip coordinates live in PDF point space. No exact page size is recorded
// at ingestion, so validation bounds default to a ceiling comfortably above
// any real newsprint format (broadsheet is ~2880x4320 at 150dpi but only
// ~810x1200pt; the ceiling leaves room for oversized special editions).

const (
	// DefaultPageWidth is the validation ceiling for x+width in points.
	DefaultPageWidth = 2400.0
	// DefaultPageHeight is the validation ceiling for y+height in points.
	DefaultPageHeight = 3400.0
)

// Bounds is the page rectangle clips are validated against.
type Bounds struct {
	Width  float64
	Height float64
}

// DefaultBounds returns the ceiling used when no exact page size is declared.
func DefaultBounds() Bounds {
	return Bounds{Width: DefaultPageWidth, Height: DefaultPageHeight}
}

/*
ValidateGeometry checks one clip rectangle against page bounds.

Description: Each failure names the specific violated bound, so an editor
correcting a hand-drawn region knows exactly which edge is wrong.

Parameters:
  - x, y: float64 (top-left corner, points)
  - width, height: float64 (extent, points)
  - bounds: Bounds (page rectangle)

Returns:
  - error: apperr.ValidationError naming the violated bound, or nil
*/
func ValidateGeometry(x, y, width, height float64, bounds Bounds) error {
	switch {
	case x < 0:
		return apperr.ValidationError("x must not be negative")
	case y < 0:
		return apperr.ValidationError("y must not be negative")
	case width <= 0:
		return apperr.ValidationError("width must be greater than zero")
	case height <= 0:
		return apperr.ValidationError("height must be greater than zero")
	case x+width > bounds.Width:
		return apperr.ValidationError(fmt.Sprintf("x + width exceeds the page width of %g", bounds.Width))
	case y+height > bounds.Height:
		return apperr.ValidationError(fmt.Sprintf("y + height exceeds the page height of %g", bounds.Height))
	}
	return nil
}

/*
ValidatePageNumber checks a clip's page reference against an issue's
declared page count.

Description: Page numbers are 1-based. A zero page count means the issue's
pages are not yet known (clips imported ahead of rasterization), in which
case only the lower bound applies.

Parameters:
  - pageNumber: int (1-based page reference)
  - pageCount: int (issue's declared count, 0 when unknown)

Returns:
  - error: apperr.ValidationError, or nil
*/
func ValidatePageNumber(pageNumber, pageCount int) error {
	if pageNumber < 1 {
		return apperr.ValidationError("pageNumber must be at least 1")
	}
	if pageCount > 0 && pageNumber > pageCount {
		return apperr.ValidationError(fmt.Sprintf("pageNumber %d exceeds the issue's %d pages", pageNumber, pageCount))
	}
	return nil
}

// # Auto-Detection Grid
//
// The placeholder layout pass assumes a US-letter page frame and splits it
// into two equal columns. A real segmentation model will replace this; the
// lifecycle rules around it (deduplication of repeated runs, manual clips
// untouched) are the part that must hold regardless of the detector.

const (
	detectFrameWidth  = 612.0
	detectFrameHeight = 792.0
	detectColumnWidth = detectFrameWidth / 2
)

// detectConfidence is the fixed score attached to placeholder auto clips,
// kept low so downstream consumers can rank real detections above them.
const detectConfidence = 0.25

// detectColumns returns the fixed two-column candidate rectangles for one page.
func detectColumns() [][4]float64 {
	return [][4]float64{
		{0, 0, detectColumnWidth, detectFrameHeight},
		{detectColumnWidth, 0, detectColumnWidth, detectFrameHeight},
	}
}
