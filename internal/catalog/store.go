// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package catalog

import "context"

// # Catalog Data Access

// Repository defines the data access contract for editions and sub-editions.
//
// All lookups are tenant-scoped: a row belonging to another tenant behaves
// exactly like a missing row (apperr.NotFound), never like a forbidden one.
type Repository interface {

	/*
		FindEdition returns a non-deleted edition by ID within a tenant.

		Parameters:
		  - context: context.Context
		  - tenantID: string (Scope)
		  - id: string (UUID)

		Returns:
		  - *Edition: Hydrated entity
		  - error: apperr.NotFound if missing, deleted, or tenant-mismatched
	*/
	FindEdition(context context.Context, tenantID, id string) (*Edition, error)

	/*
		FindSubEdition returns a non-deleted sub-edition by ID within a tenant.

		Parameters:
		  - context: context.Context
		  - tenantID: string (Scope)
		  - id: string (UUID)

		Returns:
		  - *SubEdition: Hydrated entity
		  - error: apperr.NotFound if missing, deleted, or tenant-mismatched
	*/
	FindSubEdition(context context.Context, tenantID, id string) (*SubEdition, error)

	/*
		ListEditions returns all non-deleted editions of a tenant, ordered by name.
	*/
	ListEditions(context context.Context, tenantID string) ([]*Edition, error)

	/*
		ListSubEditions returns all non-deleted sub-editions beneath an edition.
	*/
	ListSubEditions(context context.Context, tenantID, editionID string) ([]*SubEdition, error)

	/*
		CreateEdition persists a new edition.
	*/
	CreateEdition(context context.Context, edition *Edition) error

	/*
		CreateSubEdition persists a new sub-edition.
	*/
	CreateSubEdition(context context.Context, subEdition *SubEdition) error

	/*
		SoftDeleteEdition marks an edition as deleted without physical removal.
	*/
	SoftDeleteEdition(context context.Context, tenantID, id string) error

	/*
		SoftDeleteSubEdition marks a sub-edition as deleted without physical removal.
	*/
	SoftDeleteSubEdition(context context.Context, tenantID, id string) error
}
