// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package clip

import "context"

// # Data Access Contract

// ListOptions narrows a clip listing.
type ListOptions struct {
	// IncludeInactive also returns soft-deleted clips.
	IncludeInactive bool
	// PageNumber restricts the listing to one page when positive.
	PageNumber int
}

// Repository is the persistence contract for clips and their cached assets.
//
// Lookups are tenant-scoped; cross-tenant rows behave like missing rows.
type Repository interface {

	// FindByID returns one clip regardless of lifecycle state.
	FindByID(context context.Context, tenantID, id string) (*Clip, error)

	// ListByIssue returns an issue's clips ordered by page number, then
	// top-to-bottom, then left-to-right.
	ListByIssue(context context.Context, tenantID, issueID string, options ListOptions) ([]*Clip, error)

	// Create inserts one clip.
	Create(context context.Context, clip *Clip) error

	// CreateBatch inserts a pre-validated candidate set in one
	// transaction: either every clip lands or none do.
	CreateBatch(context context.Context, clips []*Clip) error

	// Update rewrites a clip's geometry and metadata in place.
	Update(context context.Context, clip *Clip) error

	// Deactivate soft-deletes one active clip, recording the actor,
	// timestamp and reason. Deactivating an already-inactive clip
	// returns apperr.NotFound.
	Deactivate(context context.Context, tenantID, id, actorID, reason string) error

	// DeactivateAutoByIssue soft-deletes every active auto-sourced clip
	// of an issue and returns how many rows transitioned. Manual and
	// import clips are never touched.
	DeactivateAutoByIssue(context context.Context, tenantID, issueID, actorID, reason string) (int64, error)

	// DeleteAssets removes every cached asset of a clip and returns the
	// number of rows deleted.
	DeleteAssets(context context.Context, clipID string) (int64, error)

	// CountAssets returns the number of cached assets for a clip.
	CountAssets(context context.Context, clipID string) (int, error)
}
