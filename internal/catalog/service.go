// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package catalog

import (
	"context"
	"log/slog"

	"github.com/patrikahq/patrika/internal/platform/validate"
	"github.com/patrikahq/patrika/pkg/slug"
	"github.com/patrikahq/patrika/pkg/uuidv7"
)

const (
	FieldName      = "name"
	FieldEditionID = "edition_id"
)

// # Service Layer

// Service orchestrates the business logic for the publication catalog.
type Service struct {
	catalogRepo Repository
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(catalogRepo Repository, logger *slog.Logger) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// # Target Resolution

/*
ResolveEdition verifies that an edition exists, is non-deleted, and belongs
to the tenant. The ingestion orchestrator calls this before any write.

Parameters:
  - context: context.Context
  - tenantID: string (Scope)
  - id: string (UUID)

Returns:
  - *Edition: The resolved edition
  - error: apperr.NotFound on miss or tenant mismatch
*/
func (service *Service) ResolveEdition(context context.Context, tenantID, id string) (*Edition, error) {
	return service.catalogRepo.FindEdition(context, tenantID, id)
}

/*
ResolveSubEdition verifies that a sub-edition exists, is non-deleted, and
belongs to the tenant.
*/
func (service *Service) ResolveSubEdition(context context.Context, tenantID, id string) (*SubEdition, error) {
	return service.catalogRepo.FindSubEdition(context, tenantID, id)
}

// # Edition Operations

/*
ListEditions returns the tenant's editions.
*/
func (service *Service) ListEditions(context context.Context, tenantID string) ([]*Edition, error) {
	return service.catalogRepo.ListEditions(context, tenantID)
}

/*
CreateEdition registers a new state-level edition for a tenant.

Description: Generates the identity and slug, applies basic field
validation, and persists the row.

Parameters:
  - context: context.Context
  - edition: *Edition

Returns:
  - error: Validation or persistence errors
*/
func (service *Service) CreateEdition(context context.Context, edition *Edition) error {

	// Identity & Mandatory field generation
	if edition.ID == "" {
		edition.ID = uuidv7.New()
	}
	if edition.Slug == "" {
		edition.Slug = slug.From(edition.Name)
	}

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldName, edition.Name).MaxLen(FieldName, edition.Name, 120)

	if err := validator.Err(); err != nil {
		return err
	}

	// Storage persistence
	if err := service.catalogRepo.CreateEdition(context, edition); err != nil {
		return err
	}

	service.logger.Info("edition_created",
		slog.String("edition_id", edition.ID),
		slog.String("tenant_id", edition.TenantID),
	)

	return nil
}

/*
DeleteEdition soft-deletes an edition.
*/
func (service *Service) DeleteEdition(context context.Context, tenantID, id string) error {
	return service.catalogRepo.SoftDeleteEdition(context, tenantID, id)
}

// # Sub-Edition Operations

/*
ListSubEditions returns the sub-editions beneath an edition.
*/
func (service *Service) ListSubEditions(context context.Context, tenantID, editionID string) ([]*SubEdition, error) {
	return service.catalogRepo.ListSubEditions(context, tenantID, editionID)
}

/*
CreateSubEdition registers a new district-level sub-edition.

Description: The parent edition must resolve within the same tenant before
the row is persisted.
*/
func (service *Service) CreateSubEdition(context context.Context, subEdition *SubEdition) error {

	// Identity & Mandatory field generation
	if subEdition.ID == "" {
		subEdition.ID = uuidv7.New()
	}
	if subEdition.Slug == "" {
		subEdition.Slug = slug.From(subEdition.Name)
	}

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldName, subEdition.Name).MaxLen(FieldName, subEdition.Name, 120)
	validator.Required(FieldEditionID, subEdition.EditionID)

	if err := validator.Err(); err != nil {
		return err
	}

	// Parent must exist within the same tenant
	if _, err := service.catalogRepo.FindEdition(context, subEdition.TenantID, subEdition.EditionID); err != nil {
		return err
	}

	// Storage persistence
	if err := service.catalogRepo.CreateSubEdition(context, subEdition); err != nil {
		return err
	}

	service.logger.Info("sub_edition_created",
		slog.String("sub_edition_id", subEdition.ID),
		slog.String("edition_id", subEdition.EditionID),
		slog.String("tenant_id", subEdition.TenantID),
	)

	return nil
}

/*
DeleteSubEdition soft-deletes a sub-edition.
*/
func (service *Service) DeleteSubEdition(context context.Context, tenantID, id string) error {
	return service.catalogRepo.SoftDeleteSubEdition(context, tenantID, id)
}
