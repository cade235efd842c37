// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package issue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyLayout(t *testing.T) {
	keys := NewKeyBuilder("epaper")
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	target := Target{Kind: TargetEdition, ID: "jaipur"}

	assert.Equal(t,
		"epaper/t1/edition/jaipur/2026-03-09/issue.pdf",
		keys.PDF("t1", target, date))

	assert.Equal(t,
		"epaper/t1/edition/jaipur/2026-03-09/pages/page-0001.png",
		keys.PageMaster("t1", target, date, 1))

	// Zero padding keeps lexical and page order aligned past page 9.
	assert.Equal(t,
		"epaper/t1/edition/jaipur/2026-03-09/pages/page-0012.png",
		keys.PageMaster("t1", target, date, 12))

	assert.Equal(t,
		"epaper/t1/edition/jaipur/2026-03-09/pages/page-0003.jpg",
		keys.PageDelivery("t1", target, date, 3))

	assert.Equal(t,
		"epaper/t1/edition/jaipur/2026-03-09/pages/preview-0003.jpg",
		keys.PagePreview("t1", target, date, 3))
}

func TestKeyLayoutSubEdition(t *testing.T) {
	keys := NewKeyBuilder("epaper")
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	target := Target{Kind: TargetSubEdition, ID: "sikar"}

	assert.Equal(t,
		"epaper/t1/sub-edition/sikar/2026-03-09/issue.pdf",
		keys.PDF("t1", target, date))
}

func TestKeyDeterminism(t *testing.T) {
	keys := NewKeyBuilder("epaper")
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	target := Target{Kind: TargetEdition, ID: "jaipur"}

	// Same address, same key: replacement overwrites in place.
	assert.Equal(t,
		keys.PDF("t1", target, date),
		keys.PDF("t1", target, date))
}

func TestKeyBuilderDefaultRoot(t *testing.T) {
	keys := NewKeyBuilder("")
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Contains(t, keys.PDF("t1", Target{Kind: TargetEdition, ID: "e"}, date), "epaper/")
}
