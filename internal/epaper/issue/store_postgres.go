// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

/*
PostgreSQL implementation of the issue repository.

The replace path is the interesting part: the old page set is deleted, the
issue row rewritten and the new page set batch-inserted inside one
transaction, so concurrent readers see either the complete old issue or the
complete new one.
*/
package issue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

// NewRepository constructs a PostgreSQL backed issue store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// issueColumns is the canonical projection for issue reads.
func issueColumns(alias string) string {
	t := schema.EpaperIssue
	cols := []string{
		t.ID, t.TenantID, t.EditionID, t.SubEditionID, t.IssueDate,
		t.PDFURL, t.CoverImageURL, t.PageCount, t.Truncated, t.UploadedBy,
		t.CreatedAt, t.UpdatedAt,
	}
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// scanIssue hydrates one issue row, mapping the nullable target-column pair
// back into the tagged union.
func scanIssue(row pgx.Row) (*Issue, error) {
	var record Issue
	var editionID, subEditionID *string

	err := row.Scan(
		&record.ID,
		&record.TenantID,
		&editionID,
		&subEditionID,
		&record.IssueDate,
		&record.PDFURL,
		&record.CoverImageURL,
		&record.PageCount,
		&record.Truncated,
		&record.UploadedBy,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Target = targetFromColumns(editionID, subEditionID)
	return &record, nil
}

/*
FindByID returns an issue by primary key within a tenant.

Parameters:
  - context: context.Context
  - tenantID: string (scoping tenant)
  - id: string (issue UUID)

Returns:
  - *Issue: The issue without pages
  - error: apperr.NotFound for missing or cross-tenant rows
*/
func (repository *repository) FindByID(context context.Context, tenantID, id string) (*Issue, error) {

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s i
		WHERE i.%s = $1 AND i.%s = $2
	`,
		issueColumns("i"),
		schema.EpaperIssue.Table,
		schema.EpaperIssue.ID, schema.EpaperIssue.TenantID,
	)

	record, err := scanIssue(repository.pool.QueryRow(context, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Issue")
		}
		return nil, fmt.Errorf("postgres: failed to find issue by id: %w", err)
	}
	return record, nil
}

/*
FindByAddress returns the issue at a business address.

Description: The address is (tenant, target, date). The target kind selects
which nullable column the lookup matches on.

Parameters:
  - context: context.Context
  - tenantID: string
  - target: Target (edition or sub-edition binding)
  - date: time.Time (issue date)

Returns:
  - *Issue: The issue without pages
  - error: apperr.NotFound when no issue occupies the address
*/
func (repository *repository) FindByAddress(context context.Context, tenantID string, target Target, date time.Time) (*Issue, error) {

	targetColumn := schema.EpaperIssue.EditionID
	if target.Kind == TargetSubEdition {
		targetColumn = schema.EpaperIssue.SubEditionID
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s i
		WHERE i.%s = $1 AND i.%s = $2 AND i.%s = $3
	`,
		issueColumns("i"),
		schema.EpaperIssue.Table,
		schema.EpaperIssue.TenantID, targetColumn, schema.EpaperIssue.IssueDate,
	)

	record, err := scanIssue(repository.pool.QueryRow(context, query, tenantID, target.ID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Issue")
		}
		return nil, fmt.Errorf("postgres: failed to find issue by address: %w", err)
	}
	return record, nil
}

/*
List returns issues matching the filter, newest first.

Returns:
  - []*Issue: Matching issues without pages
  - int: Total match count via a window function
*/
func (repository *repository) List(context context.Context, tenantID string, filter ListFilter, limit, offset int) ([]*Issue, int, error) {

	// Query construction with optional target and date-range narrowing
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s i
		WHERE i.%s = $1
	`,
		issueColumns("i"),
		schema.EpaperIssue.Table,
		schema.EpaperIssue.TenantID,
	))
	args = append(args, tenantID)
	argID++

	if filter.Target != nil {
		targetColumn := schema.EpaperIssue.EditionID
		if filter.Target.Kind == TargetSubEdition {
			targetColumn = schema.EpaperIssue.SubEditionID
		}
		queryBuilder.WriteString(fmt.Sprintf(" AND i.%s = $%d", targetColumn, argID))
		args = append(args, filter.Target.ID)
		argID++
	}

	if !filter.From.IsZero() {
		queryBuilder.WriteString(fmt.Sprintf(" AND i.%s >= $%d", schema.EpaperIssue.IssueDate, argID))
		args = append(args, filter.From)
		argID++
	}
	if !filter.To.IsZero() {
		queryBuilder.WriteString(fmt.Sprintf(" AND i.%s <= $%d", schema.EpaperIssue.IssueDate, argID))
		args = append(args, filter.To)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY i.%s DESC", schema.EpaperIssue.IssueDate))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list issues: %w", err)
	}
	defer rows.Close()

	var issues []*Issue
	var totalCount int

	for rows.Next() {
		var record Issue
		var editionID, subEditionID *string

		err := rows.Scan(
			&record.ID, &record.TenantID, &editionID, &subEditionID, &record.IssueDate,
			&record.PDFURL, &record.CoverImageURL, &record.PageCount, &record.Truncated, &record.UploadedBy,
			&record.CreatedAt, &record.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan issue: %w", err)
		}

		record.Target = targetFromColumns(editionID, subEditionID)
		issues = append(issues, &record)
	}

	return issues, totalCount, nil
}

/*
ListPages returns an issue's pages ordered by page number.
*/
func (repository *repository) ListPages(context context.Context, issueID string) ([]*Page, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.EpaperPage.ID, schema.EpaperPage.IssueID, schema.EpaperPage.PageNumber,
		schema.EpaperPage.ImageURL, schema.EpaperPage.DeliveryURL, schema.EpaperPage.PreviewURL,
		schema.EpaperPage.Table,
		schema.EpaperPage.IssueID,
		schema.EpaperPage.PageNumber,
	)

	rows, err := repository.pool.Query(context, query, issueID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	return pages, nil
}

/*
FindPage returns one page of an issue by its 1-based number.
*/
func (repository *repository) FindPage(context context.Context, issueID string, pageNumber int) (*Page, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.EpaperPage.ID, schema.EpaperPage.IssueID, schema.EpaperPage.PageNumber,
		schema.EpaperPage.ImageURL, schema.EpaperPage.DeliveryURL, schema.EpaperPage.PreviewURL,
		schema.EpaperPage.Table,
		schema.EpaperPage.IssueID, schema.EpaperPage.PageNumber,
	)

	page, err := scanPage(repository.pool.QueryRow(context, query, issueID, pageNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Page")
		}
		return nil, fmt.Errorf("postgres: failed to find page: %w", err)
	}
	return page, nil
}

// scanPage hydrates one page row, collapsing nullable derivative URLs.
func scanPage(row pgx.Row) (*Page, error) {
	var page Page
	var deliveryURL, previewURL *string

	err := row.Scan(&page.ID, &page.IssueID, &page.PageNumber, &page.ImageURL, &deliveryURL, &previewURL)
	if err != nil {
		return nil, err
	}

	if deliveryURL != nil {
		page.DeliveryURL = *deliveryURL
	}
	if previewURL != nil {
		page.PreviewURL = *previewURL
	}
	return &page, nil
}

/*
Create inserts a new issue and its pages transactionally.

Description: The unique index on (tenant, target, date) turns a lost race
between two first-time uploads into a Conflict instead of a duplicate.
*/
func (repository *repository) Create(context context.Context, record *Issue, pages []*Page) error {

	tx, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin create issue tx: %w", err)
	}
	defer tx.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		schema.EpaperIssue.Table,
		schema.EpaperIssue.ID, schema.EpaperIssue.TenantID, schema.EpaperIssue.EditionID,
		schema.EpaperIssue.SubEditionID, schema.EpaperIssue.IssueDate,
		schema.EpaperIssue.PDFURL, schema.EpaperIssue.CoverImageURL, schema.EpaperIssue.PageCount,
		schema.EpaperIssue.Truncated, schema.EpaperIssue.UploadedBy,
	)

	_, err = tx.Exec(context, query,
		record.ID,
		record.TenantID,
		record.Target.EditionID(),
		record.Target.SubEditionID(),
		record.IssueDate,
		record.PDFURL,
		record.CoverImageURL,
		record.PageCount,
		record.Truncated,
		record.UploadedBy,
	)
	if err != nil {
		return dberr.Wrap(err, "create issue")
	}

	if err := insertPages(context, tx, pages); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit create issue tx: %w", err)
	}
	return nil
}

/*
Replace atomically swaps an issue's content in place.

Description: Deletes the previous page set, rewrites the issue row and
inserts the new pages, all in one transaction. Clips reference the issue,
not its pages, so they survive the swap untouched. A reader sees the old
complete issue until commit, then the new complete issue.
*/
func (repository *repository) Replace(context context.Context, record *Issue, pages []*Page) error {

	tx, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin replace issue tx: %w", err)
	}
	defer tx.Rollback(context)

	// Old page set removal
	deletePages := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.EpaperPage.Table, schema.EpaperPage.IssueID)
	if _, err := tx.Exec(context, deletePages, record.ID); err != nil {
		return fmt.Errorf("postgres: failed to delete replaced pages: %w", err)
	}

	// Issue row rewrite
	update := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $6 AND %s = $7
	`,
		schema.EpaperIssue.Table,
		schema.EpaperIssue.PDFURL, schema.EpaperIssue.CoverImageURL, schema.EpaperIssue.PageCount,
		schema.EpaperIssue.Truncated, schema.EpaperIssue.UploadedBy, schema.EpaperIssue.UpdatedAt,
		schema.EpaperIssue.ID, schema.EpaperIssue.TenantID,
	)

	result, err := tx.Exec(context, update,
		record.PDFURL,
		record.CoverImageURL,
		record.PageCount,
		record.Truncated,
		record.UploadedBy,
		record.ID,
		record.TenantID,
	)
	if err != nil {
		return dberr.Wrap(err, "replace issue")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Issue")
	}

	if err := insertPages(context, tx, pages); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit replace issue tx: %w", err)
	}
	return nil
}

// insertPages batch-inserts the page set inside the surrounding transaction.
func insertPages(context context.Context, tx pgx.Tx, pages []*Page) error {
	if len(pages) == 0 {
		return nil
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		schema.EpaperPage.Table,
		schema.EpaperPage.ID, schema.EpaperPage.IssueID, schema.EpaperPage.PageNumber,
		schema.EpaperPage.ImageURL, schema.EpaperPage.DeliveryURL, schema.EpaperPage.PreviewURL,
	)

	batch := &pgx.Batch{}
	for _, page := range pages {
		batch.Queue(insert,
			page.ID, page.IssueID, page.PageNumber,
			page.ImageURL, nullIfEmpty(page.DeliveryURL), nullIfEmpty(page.PreviewURL))
	}

	result := tx.SendBatch(context, batch)
	defer result.Close()

	for i := 0; i < len(pages); i++ {
		if _, err := result.Exec(); err != nil {
			return fmt.Errorf("postgres: failed to batch insert page %d: %w", i, err)
		}
	}

	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

/*
Delete removes an issue. Foreign keys cascade the deletion to its pages,
clips and clip assets.
*/
func (repository *repository) Delete(context context.Context, tenantID, id string) error {

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.EpaperIssue.Table, schema.EpaperIssue.ID, schema.EpaperIssue.TenantID)

	result, err := repository.pool.Exec(context, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete issue: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Issue")
	}

	return nil
}

/*
UpdatePageDerivatives records the delivery and preview URLs of a page after
derivative generation.
*/
func (repository *repository) UpdatePageDerivatives(context context.Context, pageID, deliveryURL, previewURL string) error {

	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3`,
		schema.EpaperPage.Table,
		schema.EpaperPage.DeliveryURL, schema.EpaperPage.PreviewURL, schema.EpaperPage.ID)

	result, err := repository.pool.Exec(context, query, deliveryURL, previewURL, pageID)
	if err != nil {
		return fmt.Errorf("postgres: failed to update page derivatives: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Page")
	}

	return nil
}
