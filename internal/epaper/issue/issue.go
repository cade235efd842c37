// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

/*
Package issue implements the daily ePaper issue lifecycle: PDF intake,
rasterization, derivative encoding, object-storage upload and the relational
records binding an issue to its tenant, publication target and date.

An issue is uniquely addressed by (tenant, target, date). Re-uploading the
same address replaces the previous issue atomically.
*/
package issue

import (
	"time"

	"github.com/patrikahq/patrika/internal/platform/apperr"
)

// # Publication Target

// TargetKind discriminates the two publication levels an issue can bind to.
type TargetKind string

const (
	// TargetEdition binds an issue to a top-level edition (a city or zone).
	TargetEdition TargetKind = "edition"
	// TargetSubEdition binds an issue to a sub-edition (a locality within
	// an edition, e.g. a district supplement).
	TargetSubEdition TargetKind = "sub-edition"
)

// Target identifies exactly one publication target. The kind selects which
// catalog table the ID refers to; an issue never points at both levels.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id"`
}

/*
ParseTarget builds a [Target] from the mutually exclusive identifier pair
carried on the wire.

Description: Exactly one of editionID and subEditionID must be set. Both
empty and both set are rejected, so a malformed request can never produce
an ambiguous binding.

Parameters:
  - editionID: string (edition identifier, or empty)
  - subEditionID: string (sub-edition identifier, or empty)

Returns:
  - Target: The resolved publication target
  - error: apperr.ValidationError when the pair is not exactly-one
*/
func ParseTarget(editionID, subEditionID string) (Target, error) {
	switch {
	case editionID != "" && subEditionID != "":
		return Target{}, apperr.ValidationError("Specify either editionId or subEditionId, not both")
	case editionID != "":
		return Target{Kind: TargetEdition, ID: editionID}, nil
	case subEditionID != "":
		return Target{Kind: TargetSubEdition, ID: subEditionID}, nil
	default:
		return Target{}, apperr.ValidationError("One of editionId or subEditionId is required")
	}
}

// EditionID returns the edition identifier, or nil for sub-edition targets.
// The split-pointer form is what the relational schema stores.
func (t Target) EditionID() *string {
	if t.Kind == TargetEdition {
		return &t.ID
	}
	return nil
}

// SubEditionID returns the sub-edition identifier, or nil for edition targets.
func (t Target) SubEditionID() *string {
	if t.Kind == TargetSubEdition {
		return &t.ID
	}
	return nil
}

// targetFromColumns reconstructs a [Target] from the nullable column pair.
func targetFromColumns(editionID, subEditionID *string) Target {
	if subEditionID != nil {
		return Target{Kind: TargetSubEdition, ID: *subEditionID}
	}
	if editionID != nil {
		return Target{Kind: TargetEdition, ID: *editionID}
	}
	return Target{}
}

// # Entities

// Issue is one day's paper for one publication target.
type Issue struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	Target    Target    `json:"target"`
	IssueDate time.Time `json:"issueDate"`

	// PDFURL is the public URL of the archived source PDF.
	PDFURL string `json:"pdfUrl"`
	// CoverImageURL is the public URL of page 1's raster, used as the
	// issue's thumbnail in listings.
	CoverImageURL string `json:"coverImageUrl"`

	PageCount int `json:"pageCount"`

	// Truncated reports that a rasterization page cap cut this issue short.
	Truncated bool `json:"truncated"`

	UploadedBy string    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Pages is populated on detail reads, nil on listings.
	Pages []*Page `json:"pages,omitempty"`
}

// Page is a single rasterized page of an issue.
type Page struct {
	ID         string `json:"id"`
	IssueID    string `json:"issueId"`
	PageNumber int    `json:"pageNumber"`

	// ImageURL is the lossless PNG master, the source of truth for clips.
	ImageURL string `json:"imageUrl"`
	// DeliveryURL is the reader-facing JPEG. Empty until derivatives are
	// generated for the page.
	DeliveryURL string `json:"deliveryUrl,omitempty"`
	// PreviewURL is the social share card. Empty until generated.
	PreviewURL string `json:"previewUrl,omitempty"`
}
