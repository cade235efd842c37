// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package clip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrikahq/patrika/internal/platform/apperr"
)

func TestValidateGeometryAccepts(t *testing.T) {
	bounds := DefaultBounds()

	cases := []struct {
		name       string
		x, y, w, h float64
	}{
		{"half-letter column", 0, 0, 306, 792},
		{"full ceiling", 0, 0, DefaultPageWidth, DefaultPageHeight},
		{"interior box", 100.5, 220.25, 180, 300},
		{"right edge flush", DefaultPageWidth - 10, 0, 10, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, ValidateGeometry(tc.x, tc.y, tc.w, tc.h, bounds))
		})
	}
}

func TestValidateGeometryNamesViolatedBound(t *testing.T) {
	bounds := DefaultBounds()

	cases := []struct {
		name       string
		x, y, w, h float64
		wants      string
	}{
		{"negative x", -1, 0, 306, 792, "x must not be negative"},
		{"negative y", 0, -0.5, 306, 792, "y must not be negative"},
		{"zero width", 0, 0, 0, 792, "width must be greater than zero"},
		{"negative height", 0, 0, 306, -10, "height must be greater than zero"},
		{"overflow right", DefaultPageWidth - 5, 0, 10, 10, "x + width exceeds"},
		{"overflow bottom", 0, DefaultPageHeight - 5, 10, 10, "y + height exceeds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateGeometry(tc.x, tc.y, tc.w, tc.h, bounds)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
			assert.Contains(t, err.Error(), tc.wants)
		})
	}
}

func TestValidatePageNumber(t *testing.T) {
	assert.NoError(t, ValidatePageNumber(1, 12))
	assert.NoError(t, ValidatePageNumber(12, 12))

	// Unknown page count only enforces the lower bound
	assert.NoError(t, ValidatePageNumber(99, 0))

	assert.Error(t, ValidatePageNumber(0, 12))
	assert.Error(t, ValidatePageNumber(-3, 0))
	assert.Error(t, ValidatePageNumber(13, 12))
}

func TestDetectColumnsCoverTheFrame(t *testing.T) {
	columns := detectColumns()
	require.Len(t, columns, 2)

	// Two equal columns, side by side, spanning the full frame height
	assert.Equal(t, [4]float64{0, 0, 306, 792}, columns[0])
	assert.Equal(t, [4]float64{306, 0, 306, 792}, columns[1])

	for _, column := range columns {
		assert.NoError(t, ValidateGeometry(column[0], column[1], column[2], column[3], DefaultBounds()))
	}
}
