// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package issue

import (
	"context"
	"time"
)

// # Data Access Contracts

// ListFilter narrows issue listings.
type ListFilter struct {
	// Target restricts the listing to one publication target when non-nil.
	Target *Target
	// From and To bound the issue date range inclusively. Zero values
	// leave the corresponding side open.
	From time.Time
	To   time.Time
}

// Repository is the persistence contract for issues and their pages.
//
// All lookups are tenant-scoped: a row belonging to another tenant behaves
// exactly like a missing row.
type Repository interface {

	// FindByID returns an issue without its pages.
	FindByID(context context.Context, tenantID, id string) (*Issue, error)

	// FindByAddress returns the issue at (tenant, target, date), without
	// its pages. Returns apperr.NotFound when no issue exists there.
	FindByAddress(context context.Context, tenantID string, target Target, date time.Time) (*Issue, error)

	// List returns issues matching the filter, newest issue date first,
	// along with the total match count.
	List(context context.Context, tenantID string, filter ListFilter, limit, offset int) ([]*Issue, int, error)

	// ListPages returns an issue's pages in page-number order.
	ListPages(context context.Context, issueID string) ([]*Page, error)

	// FindPage returns one page of an issue by its 1-based number.
	FindPage(context context.Context, issueID string, pageNumber int) (*Page, error)

	// Create inserts a new issue and its pages in one transaction.
	Create(context context.Context, issue *Issue, pages []*Page) error

	// Replace atomically swaps the page set of an existing issue: it
	// deletes the old pages, updates the issue row and inserts the new
	// pages in one transaction. Readers observe either the old issue or
	// the new one, never a mix.
	Replace(context context.Context, issue *Issue, pages []*Page) error

	// Delete removes an issue. Pages and clips go with it via cascade.
	Delete(context context.Context, tenantID, id string) error

	// UpdatePageDerivatives records freshly generated derivative URLs.
	UpdatePageDerivatives(context context.Context, pageID, deliveryURL, previewURL string) error
}

// Cache is the read-through cache contract for the hot issue-by-address
// path (readers opening today's paper).
type Cache interface {

	// GetByAddress returns the cached issue at (tenant, target, date),
	// or nil on a miss. Cache failures degrade to a miss.
	GetByAddress(context context.Context, tenantID string, target Target, date time.Time) *Issue

	// SetByAddress caches an issue under its address.
	SetByAddress(context context.Context, cached *Issue)

	// Invalidate drops the cached entry for an address. Called on every
	// replace and delete so a stale page set is never served.
	Invalidate(context context.Context, tenantID string, target Target, date time.Time)
}
