// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package issue

import (
	"fmt"
	"time"

	"github.com/patrikahq/patrika/internal/platform/validate"
)

// # Storage Key Layout
//
// Every object an issue owns lives under one deterministic directory:
//
//	{root}/{tenantId}/{edition|sub-edition}/{targetId}/{YYYY-MM-DD}/
//
// Determinism is what makes replacement idempotent: re-uploading the same
// (tenant, target, date) overwrites the previous objects in place instead
// of leaking orphans under random prefixes.

// KeyBuilder derives object keys for issue artifacts.
type KeyBuilder struct {
	root string
}

// NewKeyBuilder creates a [KeyBuilder] rooted at the given key prefix.
func NewKeyBuilder(root string) KeyBuilder {
	if root == "" {
		root = "epaper"
	}
	return KeyBuilder{root: root}
}

// base returns the issue's directory prefix without a trailing slash.
func (kb KeyBuilder) base(tenantID string, target Target, date time.Time) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		kb.root, tenantID, target.Kind, target.ID, date.Format(validate.DateLayout))
}

// PDF returns the key of the archived source PDF.
func (kb KeyBuilder) PDF(tenantID string, target Target, date time.Time) string {
	return kb.base(tenantID, target, date) + "/issue.pdf"
}

// PageMaster returns the key of the lossless PNG for a 1-based page number.
// The page index is zero-padded to four digits so keys sort in page order.
func (kb KeyBuilder) PageMaster(tenantID string, target Target, date time.Time, pageNumber int) string {
	return fmt.Sprintf("%s/pages/page-%04d.png", kb.base(tenantID, target, date), pageNumber)
}

// PageDelivery returns the key of the reader-facing JPEG for a page.
func (kb KeyBuilder) PageDelivery(tenantID string, target Target, date time.Time, pageNumber int) string {
	return fmt.Sprintf("%s/pages/page-%04d.jpg", kb.base(tenantID, target, date), pageNumber)
}

// PagePreview returns the key of the social share card for a page.
func (kb KeyBuilder) PagePreview(tenantID string, target Target, date time.Time, pageNumber int) string {
	return fmt.Sprintf("%s/pages/preview-%04d.jpg", kb.base(tenantID, target, date), pageNumber)
}

// ClipAsset returns the key of a rendered clip crop.
func (kb KeyBuilder) ClipAsset(tenantID string, target Target, date time.Time, clipID string) string {
	return fmt.Sprintf("%s/clips/%s.png", kb.base(tenantID, target, date), clipID)
}
