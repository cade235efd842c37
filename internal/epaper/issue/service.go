// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package issue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrikahq/patrika/internal/catalog"
	"github.com/patrikahq/patrika/internal/pipeline/rasterize"
	"github.com/patrikahq/patrika/internal/platform/apperr"
	"github.com/patrikahq/patrika/internal/platform/storage"
	"github.com/patrikahq/patrika/internal/platform/validate"
	"github.com/patrikahq/patrika/pkg/parallel"
	"github.com/patrikahq/patrika/pkg/uuidv7"
)

// # Pipeline Contracts

// Rasterizer converts an issue PDF into ordered lossless page rasters.
type Rasterizer interface {
	Rasterize(context context.Context, pdf []byte) (*rasterize.Result, error)
}

// DerivativeEncoder produces the web delivery variants of a page master.
type DerivativeEncoder interface {
	Delivery(master []byte) ([]byte, error)
	Preview(master []byte) ([]byte, error)
}

// CatalogResolver verifies that a publication target exists for a tenant.
type CatalogResolver interface {
	ResolveEdition(context context.Context, tenantID, id string) (*catalog.Edition, error)
	ResolveSubEdition(context context.Context, tenantID, id string) (*catalog.SubEdition, error)
}

// # Commands and Results

// UploadCommand carries one ingestion request.
//
// Exactly one of PDF and SourceURL supplies the document, and exactly one
// of EditionID and SubEditionID names the target.
type UploadCommand struct {
	TenantID     string
	EditionID    string
	SubEditionID string

	// IssueDate is the calendar date in YYYY-MM-DD form.
	IssueDate string

	// PDF is the directly uploaded document, when present.
	PDF []byte
	// SourceURL is a remote document location, when PDF is empty.
	SourceURL string

	UploadedBy string
}

// ExistsResult is the outcome of a pre-upload existence probe.
type ExistsResult struct {
	Exists bool   `json:"exists"`
	Action string `json:"action"`
	Issue  *Issue `json:"issue,omitempty"`
}

// Existence probe action hints for the upload UX.
const (
	ActionSafeToUpload = "safe-to-upload"
	ActionReplace      = "replace-or-delete-first"
)

// # Issue Service

// Service orchestrates issue ingestion and reads.
type Service struct {
	issueRepo  Repository
	issueCache Cache
	catalog    CatalogResolver
	objects    storage.ObjectStore
	intake     *Intake
	rasterizer Rasterizer
	encoder    DerivativeEncoder
	keys       KeyBuilder

	uploadWorkers int
	logger        *slog.Logger
}

// ServiceOptions wires a [Service].
type ServiceOptions struct {
	Repository    Repository
	Cache         Cache
	Catalog       CatalogResolver
	Objects       storage.ObjectStore
	Intake        *Intake
	Rasterizer    Rasterizer
	Encoder       DerivativeEncoder
	Keys          KeyBuilder
	UploadWorkers int
}

// NewService constructs an issue [Service].
func NewService(opts ServiceOptions, logger *slog.Logger) *Service {
	workers := opts.UploadWorkers
	if workers <= 0 {
		workers = 4
	}

	return &Service{
		issueRepo:     opts.Repository,
		issueCache:    opts.Cache,
		catalog:       opts.Catalog,
		objects:       opts.Objects,
		intake:        opts.Intake,
		rasterizer:    opts.Rasterizer,
		encoder:       opts.Encoder,
		keys:          opts.Keys,
		uploadWorkers: workers,
		logger:        logger,
	}
}

// parseAddress validates and resolves the (target, date) half of an issue
// address. The catalog lookup also enforces tenant scoping: a target owned
// by another tenant reads as NotFound.
func (service *Service) parseAddress(context context.Context, tenantID, editionID, subEditionID, issueDate string) (Target, time.Time, error) {

	validator := &validate.Validator{}
	if err := validator.
		Required("tenantId", tenantID).
		Required("issueDate", issueDate).
		DateYMD("issueDate", issueDate).
		Err(); err != nil {
		return Target{}, time.Time{}, err
	}

	target, err := ParseTarget(editionID, subEditionID)
	if err != nil {
		return Target{}, time.Time{}, err
	}

	// Dates are anchored at UTC midnight so the same calendar day maps to
	// the same address regardless of server timezone.
	date, err := time.ParseInLocation(validate.DateLayout, issueDate, time.UTC)
	if err != nil {
		return Target{}, time.Time{}, apperr.ValidationError("issueDate must be a valid YYYY-MM-DD date")
	}

	switch target.Kind {
	case TargetEdition:
		if _, err := service.catalog.ResolveEdition(context, tenantID, target.ID); err != nil {
			return Target{}, time.Time{}, err
		}
	case TargetSubEdition:
		if _, err := service.catalog.ResolveSubEdition(context, tenantID, target.ID); err != nil {
			return Target{}, time.Time{}, err
		}
	}

	return target, date, nil
}

/*
UploadIssue ingests one issue PDF end to end.

Description: Validates the address, acquires the PDF (direct bytes or
remote fetch), rasterizes it, uploads the master PDF and every page raster
under deterministic keys, then replaces or creates the issue record in one
transaction. When a replacement shrinks the page count, the trailing page
objects of the previous upload are removed from storage best-effort.

No relational row is created or mutated unless every upstream stage has
succeeded, so a failed ingestion never leaves a partial issue behind.

Parameters:
  - ctx: context.Context
  - command: UploadCommand

Returns:
  - *Issue: The stored issue with its full page set
  - error: Validation, catalog NotFound, intake, rasterizer or storage failures
*/
func (service *Service) UploadIssue(ctx context.Context, command UploadCommand) (*Issue, error) {

	target, date, err := service.parseAddress(ctx, command.TenantID, command.EditionID, command.SubEditionID, command.IssueDate)
	if err != nil {
		return nil, err
	}

	// Document acquisition
	pdf := command.PDF
	if len(pdf) == 0 && command.SourceURL != "" {
		pdf, err = service.intake.FromURL(ctx, command.SourceURL)
		if err != nil {
			return nil, err
		}
	} else if err := service.intake.FromBytes(pdf); err != nil {
		return nil, err
	}

	// Rasterization. Failures here are fatal before any write happens.
	rastered, err := service.rasterizer.Rasterize(ctx, pdf)
	if err != nil {
		service.logger.Error("issue_rasterize_failed",
			slog.String("tenant_id", command.TenantID),
			slog.String("target_id", target.ID),
			slog.String("error", err.Error()),
		)
		return nil, apperr.UpstreamFailure("Failed to convert the PDF into pages", err)
	}

	// Prior occupant of the address, if any, decides create vs replace.
	previous, err := service.issueRepo.FindByAddress(ctx, command.TenantID, target, date)
	if err != nil {
		if appError := apperr.As(err); appError == nil || appError.Code != "NOT_FOUND" {
			return nil, err
		}
		previous = nil
	}

	// Master PDF upload at its deterministic key (overwrites on replace)
	pdfURL, err := service.objects.Put(ctx, service.keys.PDF(command.TenantID, target, date), pdf, "application/pdf")
	if err != nil {
		return nil, apperr.UpstreamFailure("Failed to archive the issue PDF", err)
	}

	// Parallel page-master uploads, order preserved by index
	pageURLs, err := parallel.MapIndexed(ctx, service.uploadWorkers, rastered.Pages,
		func(ctx context.Context, index int, master []byte) (string, error) {
			key := service.keys.PageMaster(command.TenantID, target, date, index+1)
			return service.objects.Put(ctx, key, master, "image/png")
		})
	if err != nil {
		return nil, apperr.UpstreamFailure("Failed to store page images", err)
	}
	if len(pageURLs) == 0 {
		return nil, apperr.UpstreamFailure("The PDF produced no renderable pages", nil)
	}

	// Record assembly
	record := &Issue{
		TenantID:   command.TenantID,
		Target:     target,
		IssueDate:  date,
		PDFURL:     pdfURL,
		PageCount:  len(pageURLs),
		Truncated:  rastered.Truncated,
		UploadedBy: command.UploadedBy,
	}
	record.CoverImageURL = pageURLs[0]

	if previous != nil {
		record.ID = previous.ID
	} else {
		record.ID = uuidv7.Must()
	}

	pages := make([]*Page, len(pageURLs))
	for i, url := range pageURLs {
		pages[i] = &Page{
			ID:         uuidv7.Must(),
			IssueID:    record.ID,
			PageNumber: i + 1,
			ImageURL:   url,
		}
	}

	// Single transactional write
	if previous != nil {
		if err := service.issueRepo.Replace(ctx, record, pages); err != nil {
			return nil, err
		}
	} else {
		if err := service.issueRepo.Create(ctx, record, pages); err != nil {
			return nil, err
		}
	}

	// Trailing-page cleanup when a replacement shrank the issue
	if previous != nil && previous.PageCount > len(pages) {
		service.cleanupTrailingPages(ctx, command.TenantID, target, date, len(pages)+1, previous.PageCount)
	}

	service.issueCache.Invalidate(ctx, command.TenantID, target, date)

	record.Pages = pages
	service.logger.Info("issue_ingested",
		slog.String("issue_id", record.ID),
		slog.String("tenant_id", record.TenantID),
		slog.String("target_kind", string(target.Kind)),
		slog.String("issue_date", command.IssueDate),
		slog.Int("pages", record.PageCount),
		slog.Bool("replaced", previous != nil),
	)

	return record, nil
}

// cleanupTrailingPages deletes the storage objects of page numbers
// [from, to] left behind by a shrinking replacement. Failures are logged
// and never surfaced: the primary write already succeeded.
func (service *Service) cleanupTrailingPages(ctx context.Context, tenantID string, target Target, date time.Time, from, to int) {

	var keys []string
	for pageNumber := from; pageNumber <= to; pageNumber++ {
		keys = append(keys,
			service.keys.PageMaster(tenantID, target, date, pageNumber),
			service.keys.PageDelivery(tenantID, target, date, pageNumber),
			service.keys.PagePreview(tenantID, target, date, pageNumber),
		)
	}

	err := parallel.ForEach(ctx, service.uploadWorkers, keys,
		func(ctx context.Context, _ int, key string) error {
			return service.objects.Delete(ctx, key)
		})
	if err != nil {
		service.logger.Warn("issue_orphan_cleanup_incomplete",
			slog.String("tenant_id", tenantID),
			slog.Int("from_page", from),
			slog.Int("to_page", to),
			slog.String("error", err.Error()),
		)
	}
}

/*
CheckExists probes an issue address before an upload.

Description: Pure read supporting a "preview before overwrite" flow. When
the address is occupied, the existing issue is returned along with a hint
that an upload would replace it.

Parameters:
  - context: context.Context
  - tenantID, editionID, subEditionID, issueDate: address components

Returns:
  - *ExistsResult: Occupancy plus the suggested action
  - error: Validation or catalog NotFound failures
*/
func (service *Service) CheckExists(context context.Context, tenantID, editionID, subEditionID, issueDate string) (*ExistsResult, error) {

	target, date, err := service.parseAddress(context, tenantID, editionID, subEditionID, issueDate)
	if err != nil {
		return nil, err
	}

	existing, err := service.issueRepo.FindByAddress(context, tenantID, target, date)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "NOT_FOUND" {
			return &ExistsResult{Exists: false, Action: ActionSafeToUpload}, nil
		}
		return nil, err
	}

	return &ExistsResult{Exists: true, Action: ActionReplace, Issue: existing}, nil
}

/*
FindIssue returns an issue by ID with its full page set.
*/
func (service *Service) FindIssue(context context.Context, tenantID, id string) (*Issue, error) {

	record, err := service.issueRepo.FindByID(context, tenantID, id)
	if err != nil {
		return nil, err
	}

	pages, err := service.issueRepo.ListPages(context, record.ID)
	if err != nil {
		return nil, err
	}

	record.Pages = pages
	return record, nil
}

/*
GetIssue returns the issue at a business address with its full page set.

Description: This is the reader hot path, so it reads through the Redis
cache. Database results are cached under the address; replace and delete
drop the entry.
*/
func (service *Service) GetIssue(context context.Context, tenantID, editionID, subEditionID, issueDate string) (*Issue, error) {

	target, date, err := service.parseAddress(context, tenantID, editionID, subEditionID, issueDate)
	if err != nil {
		return nil, err
	}

	if cached := service.issueCache.GetByAddress(context, tenantID, target, date); cached != nil {
		return cached, nil
	}

	record, err := service.issueRepo.FindByAddress(context, tenantID, target, date)
	if err != nil {
		return nil, err
	}

	pages, err := service.issueRepo.ListPages(context, record.ID)
	if err != nil {
		return nil, err
	}
	record.Pages = pages

	service.issueCache.SetByAddress(context, record)
	return record, nil
}

/*
ListIssues returns issues for a tenant, newest first.
*/
func (service *Service) ListIssues(context context.Context, tenantID string, filter ListFilter, limit, offset int) ([]*Issue, int, error) {
	return service.issueRepo.List(context, tenantID, filter, limit, offset)
}

/*
DeleteIssue removes an issue and cleans up its storage objects.

Description: The relational delete runs first and cascades to pages and
clips. Storage cleanup follows best-effort: the PDF master and every page
object are deleted in parallel, and failures are logged without failing
the request — the deterministic key layout means a later re-upload of the
same address overwrites any survivors.

Returns:
  - []string: The storage keys whose deletion was attempted
  - error: apperr.NotFound, or relational delete failures
*/
func (service *Service) DeleteIssue(ctx context.Context, tenantID, id string) ([]string, error) {

	record, err := service.issueRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := service.issueRepo.Delete(ctx, tenantID, id); err != nil {
		return nil, err
	}

	// Storage cleanup outside the transaction, best-effort
	keys := []string{service.keys.PDF(tenantID, record.Target, record.IssueDate)}
	for pageNumber := 1; pageNumber <= record.PageCount; pageNumber++ {
		keys = append(keys,
			service.keys.PageMaster(tenantID, record.Target, record.IssueDate, pageNumber),
			service.keys.PageDelivery(tenantID, record.Target, record.IssueDate, pageNumber),
			service.keys.PagePreview(tenantID, record.Target, record.IssueDate, pageNumber),
		)
	}

	cleanupErr := parallel.ForEach(ctx, service.uploadWorkers, keys,
		func(ctx context.Context, _ int, key string) error {
			return service.objects.Delete(ctx, key)
		})
	if cleanupErr != nil {
		service.logger.Warn("issue_delete_cleanup_incomplete",
			slog.String("issue_id", id),
			slog.String("error", cleanupErr.Error()),
		)
	}

	service.issueCache.Invalidate(ctx, tenantID, record.Target, record.IssueDate)

	service.logger.Info("issue_deleted",
		slog.String("issue_id", id),
		slog.String("tenant_id", tenantID),
		slog.Int("objects_cleaned", len(keys)),
	)

	return keys, nil
}

/*
GeneratePageDerivatives produces the delivery and preview encodings for one
page on demand.

Description: Fetches the page's lossless master back from storage, encodes
both derivatives, writes them under their deterministic keys and records
the URLs on the page row. Re-running regenerates and overwrites in place.

Parameters:
  - context: context.Context
  - tenantID, issueID: owning issue address
  - pageNumber: 1-based page number

Returns:
  - *Page: The page with fresh derivative URLs
  - error: apperr.NotFound, encode or storage failures
*/
func (service *Service) GeneratePageDerivatives(context context.Context, tenantID, issueID string, pageNumber int) (*Page, error) {

	record, err := service.issueRepo.FindByID(context, tenantID, issueID)
	if err != nil {
		return nil, err
	}

	page, err := service.issueRepo.FindPage(context, issueID, pageNumber)
	if err != nil {
		return nil, err
	}

	masterKey := service.keys.PageMaster(tenantID, record.Target, record.IssueDate, pageNumber)
	master, err := service.objects.Get(context, masterKey)
	if err != nil {
		return nil, apperr.UpstreamFailure("Failed to read the page master", err)
	}

	deliveryData, err := service.encoder.Delivery(master)
	if err != nil {
		return nil, fmt.Errorf("issue: delivery encode failed: %w", err)
	}
	previewData, err := service.encoder.Preview(master)
	if err != nil {
		return nil, fmt.Errorf("issue: preview encode failed: %w", err)
	}

	deliveryURL, err := service.objects.Put(context,
		service.keys.PageDelivery(tenantID, record.Target, record.IssueDate, pageNumber),
		deliveryData, "image/jpeg")
	if err != nil {
		return nil, apperr.UpstreamFailure("Failed to store the delivery image", err)
	}

	previewURL, err := service.objects.Put(context,
		service.keys.PagePreview(tenantID, record.Target, record.IssueDate, pageNumber),
		previewData, "image/jpeg")
	if err != nil {
		return nil, apperr.UpstreamFailure("Failed to store the preview image", err)
	}

	if err := service.issueRepo.UpdatePageDerivatives(context, page.ID, deliveryURL, previewURL); err != nil {
		return nil, err
	}

	service.issueCache.Invalidate(context, tenantID, record.Target, record.IssueDate)

	page.DeliveryURL = deliveryURL
	page.PreviewURL = previewURL
	return page, nil
}
