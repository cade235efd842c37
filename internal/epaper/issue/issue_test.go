// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package issue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrikahq/patrika/internal/platform/apperr"
)

func TestParseTargetEdition(t *testing.T) {
	target, err := ParseTarget("ed-1", "")
	require.NoError(t, err)
	assert.Equal(t, TargetEdition, target.Kind)
	assert.Equal(t, "ed-1", target.ID)
	require.NotNil(t, target.EditionID())
	assert.Nil(t, target.SubEditionID())
}

func TestParseTargetSubEdition(t *testing.T) {
	target, err := ParseTarget("", "sub-1")
	require.NoError(t, err)
	assert.Equal(t, TargetSubEdition, target.Kind)
	assert.Equal(t, "sub-1", target.ID)
	assert.Nil(t, target.EditionID())
	require.NotNil(t, target.SubEditionID())
}

func TestParseTargetRejectsBoth(t *testing.T) {
	_, err := ParseTarget("ed-1", "sub-1")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestParseTargetRejectsNeither(t *testing.T) {
	_, err := ParseTarget("", "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestTargetFromColumnsRoundTrip(t *testing.T) {
	edition := "ed-9"
	assert.Equal(t, Target{Kind: TargetEdition, ID: "ed-9"}, targetFromColumns(&edition, nil))

	sub := "sub-9"
	assert.Equal(t, Target{Kind: TargetSubEdition, ID: "sub-9"}, targetFromColumns(nil, &sub))
}
