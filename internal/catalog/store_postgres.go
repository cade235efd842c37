// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/patrikahq/patrika/internal/platform/apperr"
	"github.com/patrikahq/patrika/internal/platform/database/schema"
)

// # PostgreSQL Repository

// repository implements the [Repository] interface using pgx.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed catalog store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

/*
FindEdition returns a non-deleted edition by ID within a tenant.

Description: Tenant scoping happens in the WHERE clause so a mismatched
tenant is indistinguishable from a missing row.
*/
func (repository *repository) FindEdition(context context.Context, tenantID, id string) (*Edition, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2 AND %s IS NULL
	`,
		schema.CatalogEdition.ID, schema.CatalogEdition.TenantID, schema.CatalogEdition.Name,
		schema.CatalogEdition.Slug, schema.CatalogEdition.StateCode,
		schema.CatalogEdition.CreatedAt, schema.CatalogEdition.UpdatedAt, schema.CatalogEdition.DeletedAt,
		schema.CatalogEdition.Table,
		schema.CatalogEdition.ID, schema.CatalogEdition.TenantID, schema.CatalogEdition.DeletedAt,
	)

	var edition Edition
	err := repository.pool.QueryRow(context, query, id, tenantID).Scan(
		&edition.ID,
		&edition.TenantID,
		&edition.Name,
		&edition.Slug,
		&edition.StateCode,
		&edition.CreatedAt,
		&edition.UpdatedAt,
		&edition.DeletedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Edition")
		}
		return nil, fmt.Errorf("postgres: failed to find edition: %w", err)
	}

	return &edition, nil
}

/*
FindSubEdition returns a non-deleted sub-edition by ID within a tenant.
*/
func (repository *repository) FindSubEdition(context context.Context, tenantID, id string) (*SubEdition, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2 AND %s IS NULL
	`,
		schema.CatalogSubEdition.ID, schema.CatalogSubEdition.TenantID, schema.CatalogSubEdition.EditionID,
		schema.CatalogSubEdition.Name, schema.CatalogSubEdition.Slug, schema.CatalogSubEdition.District,
		schema.CatalogSubEdition.CreatedAt, schema.CatalogSubEdition.UpdatedAt, schema.CatalogSubEdition.DeletedAt,
		schema.CatalogSubEdition.Table,
		schema.CatalogSubEdition.ID, schema.CatalogSubEdition.TenantID, schema.CatalogSubEdition.DeletedAt,
	)

	var subEdition SubEdition
	err := repository.pool.QueryRow(context, query, id, tenantID).Scan(
		&subEdition.ID,
		&subEdition.TenantID,
		&subEdition.EditionID,
		&subEdition.Name,
		&subEdition.Slug,
		&subEdition.District,
		&subEdition.CreatedAt,
		&subEdition.UpdatedAt,
		&subEdition.DeletedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Sub-edition")
		}
		return nil, fmt.Errorf("postgres: failed to find sub-edition: %w", err)
	}

	return &subEdition, nil
}

/*
ListEditions returns all non-deleted editions of a tenant, ordered by name.
*/
func (repository *repository) ListEditions(context context.Context, tenantID string) ([]*Edition, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
		ORDER BY %s ASC
	`,
		schema.CatalogEdition.ID, schema.CatalogEdition.TenantID, schema.CatalogEdition.Name,
		schema.CatalogEdition.Slug, schema.CatalogEdition.StateCode,
		schema.CatalogEdition.CreatedAt, schema.CatalogEdition.UpdatedAt, schema.CatalogEdition.DeletedAt,
		schema.CatalogEdition.Table,
		schema.CatalogEdition.TenantID, schema.CatalogEdition.DeletedAt,
		schema.CatalogEdition.Name,
	)

	rows, err := repository.pool.Query(context, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list editions: %w", err)
	}
	defer rows.Close()

	var editions []*Edition
	for rows.Next() {
		var edition Edition
		err := rows.Scan(
			&edition.ID,
			&edition.TenantID,
			&edition.Name,
			&edition.Slug,
			&edition.StateCode,
			&edition.CreatedAt,
			&edition.UpdatedAt,
			&edition.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan edition: %w", err)
		}
		editions = append(editions, &edition)
	}

	return editions, nil
}

/*
ListSubEditions returns all non-deleted sub-editions beneath an edition.
*/
func (repository *repository) ListSubEditions(context context.Context, tenantID, editionID string) ([]*SubEdition, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2 AND %s IS NULL
		ORDER BY %s ASC
	`,
		schema.CatalogSubEdition.ID, schema.CatalogSubEdition.TenantID, schema.CatalogSubEdition.EditionID,
		schema.CatalogSubEdition.Name, schema.CatalogSubEdition.Slug, schema.CatalogSubEdition.District,
		schema.CatalogSubEdition.CreatedAt, schema.CatalogSubEdition.UpdatedAt, schema.CatalogSubEdition.DeletedAt,
		schema.CatalogSubEdition.Table,
		schema.CatalogSubEdition.TenantID, schema.CatalogSubEdition.EditionID, schema.CatalogSubEdition.DeletedAt,
		schema.CatalogSubEdition.Name,
	)

	rows, err := repository.pool.Query(context, query, tenantID, editionID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list sub-editions: %w", err)
	}
	defer rows.Close()

	var subEditions []*SubEdition
	for rows.Next() {
		var subEdition SubEdition
		err := rows.Scan(
			&subEdition.ID,
			&subEdition.TenantID,
			&subEdition.EditionID,
			&subEdition.Name,
			&subEdition.Slug,
			&subEdition.District,
			&subEdition.CreatedAt,
			&subEdition.UpdatedAt,
			&subEdition.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan sub-edition: %w", err)
		}
		subEditions = append(subEditions, &subEdition)
	}

	return subEditions, nil
}

/*
CreateEdition persists a new edition.
*/
func (repository *repository) CreateEdition(context context.Context, edition *Edition) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
	`,
		schema.CatalogEdition.Table,
		schema.CatalogEdition.ID, schema.CatalogEdition.TenantID, schema.CatalogEdition.Name,
		schema.CatalogEdition.Slug, schema.CatalogEdition.StateCode,
	)

	_, err := repository.pool.Exec(context, query,
		edition.ID,
		edition.TenantID,
		edition.Name,
		edition.Slug,
		edition.StateCode,
	)

	if err != nil {
		return fmt.Errorf("postgres: failed to create edition: %w", err)
	}

	return nil
}

/*
CreateSubEdition persists a new sub-edition.
*/
func (repository *repository) CreateSubEdition(context context.Context, subEdition *SubEdition) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		schema.CatalogSubEdition.Table,
		schema.CatalogSubEdition.ID, schema.CatalogSubEdition.TenantID, schema.CatalogSubEdition.EditionID,
		schema.CatalogSubEdition.Name, schema.CatalogSubEdition.Slug, schema.CatalogSubEdition.District,
	)

	_, err := repository.pool.Exec(context, query,
		subEdition.ID,
		subEdition.TenantID,
		subEdition.EditionID,
		subEdition.Name,
		subEdition.Slug,
		subEdition.District,
	)

	if err != nil {
		return fmt.Errorf("postgres: failed to create sub-edition: %w", err)
	}

	return nil
}

/*
SoftDeleteEdition marks an edition as deleted.
*/
func (repository *repository) SoftDeleteEdition(context context.Context, tenantID, id string) error {

	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s = $2 AND %s IS NULL`,
		schema.CatalogEdition.Table, schema.CatalogEdition.DeletedAt,
		schema.CatalogEdition.ID, schema.CatalogEdition.TenantID, schema.CatalogEdition.DeletedAt)

	result, err := repository.pool.Exec(context, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete edition: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Edition")
	}

	return nil
}

/*
SoftDeleteSubEdition marks a sub-edition as deleted.
*/
func (repository *repository) SoftDeleteSubEdition(context context.Context, tenantID, id string) error {

	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s = $2 AND %s IS NULL`,
		schema.CatalogSubEdition.Table, schema.CatalogSubEdition.DeletedAt,
		schema.CatalogSubEdition.ID, schema.CatalogSubEdition.TenantID, schema.CatalogSubEdition.DeletedAt)

	result, err := repository.pool.Exec(context, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete sub-edition: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Sub-edition")
	}

	return nil
}
