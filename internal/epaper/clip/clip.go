// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

/*
Package clip owns the article-clip spatial model: rectangular regions on
issue pages that tie printed areas to individual articles.

A clip lives on one page of one issue by (issue, page number) reference.
It is not a child of a page row — import workflows create clips before
rasterization has produced any pages. Lifecycle is append-only: clips are
created active and only ever transition to inactive; nothing returns an
inactive clip to active through the public surface.
*/
package clip

import "time"

// # Lifecycle

// Status is the clip lifecycle state.
type Status string

const (
	// StatusActive marks a clip visible in default listings.
	StatusActive Status = "active"
	// StatusInactive marks a soft-deleted clip. The row stays queryable
	// under an explicit include-inactive flag.
	StatusInactive Status = "inactive"
)

// Source discriminates how a clip came to exist.
type Source string

const (
	SourceManual Source = "manual"
	SourceAuto   Source = "auto"
	SourceImport Source = "import"
)

// # Entities

// Clip is a rectangular article region on one page of one issue.
//
// Coordinates are in the PDF's point space with the origin at the top-left
// of the page.
type Clip struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	IssueID  string `json:"issueId"`

	PageNumber int `json:"pageNumber"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// ColumnTag is the editorial column the article belongs to, if any.
	ColumnTag string `json:"columnTag,omitempty"`
	Title     string `json:"title,omitempty"`
	// ArticleRef links the clip to an external article record.
	ArticleRef string `json:"articleRef,omitempty"`

	Source Source `json:"source"`
	// Confidence is the detection score for auto clips, nil otherwise.
	Confidence *float64 `json:"confidence,omitempty"`

	Status Status `json:"status"`
	// Deactivation audit trail, populated only for inactive clips.
	DeactivatedAt    *time.Time `json:"deactivatedAt,omitempty"`
	DeactivatedBy    string     `json:"deactivatedBy,omitempty"`
	DeactivateReason string     `json:"deactivateReason,omitempty"`

	CreatedBy string    `json:"createdBy"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsActive reports whether the clip is in its visible lifecycle state.
func (c *Clip) IsActive() bool { return c.Status == StatusActive }

// ClipAsset is a cached rendering derived from a clip's geometry, typically
// a cropped sub-image. Assets have no TTL: the clip service deletes them
// whenever the owning clip's geometry changes, and a downstream renderer
// recreates them lazily.
type ClipAsset struct {
	ID        string    `json:"id"`
	ClipID    string    `json:"clipId"`
	Kind      string    `json:"kind"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
