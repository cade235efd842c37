// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package clip

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/patrikahq/patrika/internal/platform/apperr"
	"github.com/patrikahq/patrika/internal/platform/database/schema"
	"github.com/patrikahq/patrika/internal/platform/dberr"
)

// # PostgreSQL Repository

// repository implements the [Repository] interface using pgx.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed clip store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// clipColumns is the canonical projection for clip reads.
func clipColumns() string {
	t := schema.EpaperClip
	return strings.Join([]string{
		t.ID, t.TenantID, t.IssueID, t.PageNumber,
		t.X, t.Y, t.Width, t.Height,
		t.ColumnTag, t.Title, t.ArticleRef, t.Source, t.Confidence,
		t.Status, t.DeactivatedAt, t.DeactivatedBy, t.DeactivateReason,
		t.CreatedBy, t.UpdatedBy, t.CreatedAt, t.UpdatedAt,
	}, ", ")
}

// scanClip hydrates one clip row.
func scanClip(row pgx.Row) (*Clip, error) {
	var record Clip
	var columnTag, title, articleRef, deactivatedBy, deactivateReason, updatedBy *string

	err := row.Scan(
		&record.ID,
		&record.TenantID,
		&record.IssueID,
		&record.PageNumber,
		&record.X,
		&record.Y,
		&record.Width,
		&record.Height,
		&columnTag,
		&title,
		&articleRef,
		&record.Source,
		&record.Confidence,
		&record.Status,
		&record.DeactivatedAt,
		&deactivatedBy,
		&deactivateReason,
		&record.CreatedBy,
		&updatedBy,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	assignIfSet := func(target *string, value *string) {
		if value != nil {
			*target = *value
		}
	}
	assignIfSet(&record.ColumnTag, columnTag)
	assignIfSet(&record.Title, title)
	assignIfSet(&record.ArticleRef, articleRef)
	assignIfSet(&record.DeactivatedBy, deactivatedBy)
	assignIfSet(&record.DeactivateReason, deactivateReason)
	assignIfSet(&record.UpdatedBy, updatedBy)

	return &record, nil
}

/*
FindByID returns one clip within a tenant, active or not.
*/
func (repository *repository) FindByID(context context.Context, tenantID, id string) (*Clip, error) {

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		clipColumns(),
		schema.EpaperClip.Table,
		schema.EpaperClip.ID, schema.EpaperClip.TenantID,
	)

	record, err := scanClip(repository.pool.QueryRow(context, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Clip")
		}
		return nil, fmt.Errorf("postgres: failed to find clip by id: %w", err)
	}
	return record, nil
}

/*
ListByIssue returns an issue's clips in reading order.

Description: Ordered by page number, then y, then x — top-to-bottom and
left-to-right within each page. Inactive clips appear only when requested.
*/
func (repository *repository) ListByIssue(context context.Context, tenantID, issueID string, options ListOptions) ([]*Clip, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		clipColumns(),
		schema.EpaperClip.Table,
		schema.EpaperClip.TenantID, schema.EpaperClip.IssueID,
	))
	args = append(args, tenantID, issueID)
	argID += 2

	if !options.IncludeInactive {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.EpaperClip.Status, argID))
		args = append(args, StatusActive)
		argID++
	}

	if options.PageNumber > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.EpaperClip.PageNumber, argID))
		args = append(args, options.PageNumber)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC, %s ASC, %s ASC",
		schema.EpaperClip.PageNumber, schema.EpaperClip.Y, schema.EpaperClip.X))

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list clips: %w", err)
	}
	defer rows.Close()

	var clips []*Clip
	for rows.Next() {
		record, err := scanClip(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan clip: %w", err)
		}
		clips = append(clips, record)
	}

	return clips, nil
}

// clipInsert is the shared INSERT statement for single and batch creation.
func clipInsert() string {
	t := schema.EpaperClip
	return fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s,
			%s, %s, %s, %s,
			%s, %s, %s, %s, %s,
			%s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		t.Table,
		t.ID, t.TenantID, t.IssueID, t.PageNumber,
		t.X, t.Y, t.Width, t.Height,
		t.ColumnTag, t.Title, t.ArticleRef, t.Source, t.Confidence,
		t.Status, t.CreatedBy,
	)
}

func clipInsertArgs(record *Clip) []any {
	return []any{
		record.ID, record.TenantID, record.IssueID, record.PageNumber,
		record.X, record.Y, record.Width, record.Height,
		nullIfEmpty(record.ColumnTag), nullIfEmpty(record.Title), nullIfEmpty(record.ArticleRef),
		record.Source, record.Confidence,
		record.Status, record.CreatedBy,
	}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

/*
Create inserts one clip.
*/
func (repository *repository) Create(context context.Context, record *Clip) error {

	_, err := repository.pool.Exec(context, clipInsert(), clipInsertArgs(record)...)
	if err != nil {
		return dberr.Wrap(err, "create clip")
	}
	return nil
}

/*
CreateBatch inserts a candidate set transactionally.

Description: Validation happens entirely in the service layer before this
is called; the transaction guarantees the batch is all-or-nothing at the
storage level too.
*/
func (repository *repository) CreateBatch(context context.Context, clips []*Clip) error {
	if len(clips) == 0 {
		return nil
	}

	tx, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin clip batch tx: %w", err)
	}
	defer tx.Rollback(context)

	batch := &pgx.Batch{}
	for _, record := range clips {
		batch.Queue(clipInsert(), clipInsertArgs(record)...)
	}

	result := tx.SendBatch(context, batch)
	for i := 0; i < len(clips); i++ {
		if _, err := result.Exec(); err != nil {
			result.Close()
			return fmt.Errorf("postgres: failed to batch insert clip %d: %w", i, err)
		}
	}
	if err := result.Close(); err != nil {
		return fmt.Errorf("postgres: failed to close clip batch: %w", err)
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit clip batch tx: %w", err)
	}
	return nil
}

/*
Update rewrites a clip's geometry and metadata.
*/
func (repository *repository) Update(context context.Context, record *Clip) error {

	t := schema.EpaperClip
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4,
			%s = $5, %s = $6, %s = $7, %s = $8,
			%s = $9, %s = NOW()
		WHERE %s = $10 AND %s = $11
	`,
		t.Table,
		t.X, t.Y, t.Width, t.Height,
		t.ColumnTag, t.Title, t.ArticleRef, t.PageNumber,
		t.UpdatedBy, t.UpdatedAt,
		t.ID, t.TenantID,
	)

	result, err := repository.pool.Exec(context, query,
		record.X, record.Y, record.Width, record.Height,
		nullIfEmpty(record.ColumnTag), nullIfEmpty(record.Title), nullIfEmpty(record.ArticleRef),
		record.PageNumber,
		nullIfEmpty(record.UpdatedBy),
		record.ID, record.TenantID,
	)
	if err != nil {
		return dberr.Wrap(err, "update clip")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Clip")
	}

	return nil
}

/*
Deactivate soft-deletes one active clip with a transition record.
*/
func (repository *repository) Deactivate(context context.Context, tenantID, id, actorID, reason string) error {

	t := schema.EpaperClip
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = NOW(), %s = $2, %s = $3, %s = NOW()
		WHERE %s = $4 AND %s = $5 AND %s = $6
	`,
		t.Table,
		t.Status, t.DeactivatedAt, t.DeactivatedBy, t.DeactivateReason, t.UpdatedAt,
		t.ID, t.TenantID, t.Status,
	)

	result, err := repository.pool.Exec(context, query,
		StatusInactive, actorID, reason,
		id, tenantID, StatusActive,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to deactivate clip: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Clip")
	}

	return nil
}

/*
DeactivateAutoByIssue retires every active auto clip of an issue.

Description: Runs before each detection pass so repeated runs never
accumulate duplicate active auto clips. The source filter guarantees
manual and import clips are untouched regardless of geometry.
*/
func (repository *repository) DeactivateAutoByIssue(context context.Context, tenantID, issueID, actorID, reason string) (int64, error) {

	t := schema.EpaperClip
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = NOW(), %s = $2, %s = $3, %s = NOW()
		WHERE %s = $4 AND %s = $5 AND %s = $6 AND %s = $7
	`,
		t.Table,
		t.Status, t.DeactivatedAt, t.DeactivatedBy, t.DeactivateReason, t.UpdatedAt,
		t.TenantID, t.IssueID, t.Source, t.Status,
	)

	result, err := repository.pool.Exec(context, query,
		StatusInactive, actorID, reason,
		tenantID, issueID, SourceAuto, StatusActive,
	)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to deactivate auto clips: %w", err)
	}

	return result.RowsAffected(), nil
}

/*
DeleteAssets removes every cached asset row of a clip.
*/
func (repository *repository) DeleteAssets(context context.Context, clipID string) (int64, error) {

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.EpaperClipAsset.Table, schema.EpaperClipAsset.ClipID)

	result, err := repository.pool.Exec(context, query, clipID)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to delete clip assets: %w", err)
	}

	return result.RowsAffected(), nil
}

/*
CountAssets returns the number of cached assets for a clip.
*/
func (repository *repository) CountAssets(context context.Context, clipID string) (int, error) {

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.EpaperClipAsset.Table, schema.EpaperClipAsset.ClipID)

	var count int
	if err := repository.pool.QueryRow(context, query, clipID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: failed to count clip assets: %w", err)
	}

	return count, nil
}
