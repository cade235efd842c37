// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package clip

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/patrikahq/patrika/internal/epaper/issue"
	"github.com/patrikahq/patrika/internal/platform/apperr"
	"github.com/patrikahq/patrika/internal/platform/validate"
	"github.com/patrikahq/patrika/pkg/pointer"
	"github.com/patrikahq/patrika/pkg/slice"
	"github.com/patrikahq/patrika/pkg/uuidv7"
)

// IssueResolver looks up the owning issue for tenant scoping and page-count
// bounds. Satisfied by the issue service.
type IssueResolver interface {
	FindIssue(context context.Context, tenantID, id string) (*issue.Issue, error)
}

// # Commands

// CreateCommand carries one manual clip creation.
type CreateCommand struct {
	TenantID   string
	IssueID    string
	PageNumber int

	X      float64
	Y      float64
	Width  float64
	Height float64

	ColumnTag  string
	Title      string
	ArticleRef string

	CreatedBy string
}

// UpdatePatch carries a partial clip update. Nil fields keep their current
// values.
type UpdatePatch struct {
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64

	PageNumber *int

	ColumnTag  *string
	Title      *string
	ArticleRef *string

	UpdatedBy string
}

// geometryTouched reports whether the patch supplies any geometry field.
func (p UpdatePatch) geometryTouched() bool {
	return p.X != nil || p.Y != nil || p.Width != nil || p.Height != nil
}

// Candidate is one entry of a bulk import.
type Candidate struct {
	PageNumber int      `json:"pageNumber"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	ColumnTag  string   `json:"columnTag,omitempty"`
	Title      string   `json:"title,omitempty"`
	ArticleRef string   `json:"articleRef,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// BulkCommand carries a bulk clip import.
type BulkCommand struct {
	TenantID   string
	IssueID    string
	Source     Source
	Candidates []Candidate
	CreatedBy  string
}

// # Clip Service

// Service owns clip lifecycle and validation.
type Service struct {
	clipRepo Repository
	issues   IssueResolver
	logger   *slog.Logger
}

// NewService constructs a clip [Service].
func NewService(clipRepo Repository, issues IssueResolver, logger *slog.Logger) *Service {
	return &Service{clipRepo: clipRepo, issues: issues, logger: logger}
}

// resolveIssue loads the owning issue, enforcing tenant scope.
func (service *Service) resolveIssue(context context.Context, tenantID, issueID string) (*issue.Issue, error) {
	validator := &validate.Validator{}
	if err := validator.
		Required("tenantId", tenantID).
		Required("issueId", issueID).
		Err(); err != nil {
		return nil, err
	}
	return service.issues.FindIssue(context, tenantID, issueID)
}

/*
CreateClip validates and persists one manual clip.

Description: The issue must exist within the caller's tenant; the page
number is checked against the issue's page count when known, and the
rectangle against the default page bounds. Nothing is persisted on any
validation failure.

Parameters:
  - context: context.Context
  - command: CreateCommand

Returns:
  - *Clip: The stored active clip
  - error: Validation or NotFound failures
*/
func (service *Service) CreateClip(context context.Context, command CreateCommand) (*Clip, error) {

	owner, err := service.resolveIssue(context, command.TenantID, command.IssueID)
	if err != nil {
		return nil, err
	}

	if err := ValidatePageNumber(command.PageNumber, owner.PageCount); err != nil {
		return nil, err
	}
	if err := ValidateGeometry(command.X, command.Y, command.Width, command.Height, DefaultBounds()); err != nil {
		return nil, err
	}

	record := &Clip{
		ID:         uuidv7.Must(),
		TenantID:   command.TenantID,
		IssueID:    command.IssueID,
		PageNumber: command.PageNumber,
		X:          command.X,
		Y:          command.Y,
		Width:      command.Width,
		Height:     command.Height,
		ColumnTag:  command.ColumnTag,
		Title:      command.Title,
		ArticleRef: command.ArticleRef,
		Source:     SourceManual,
		Status:     StatusActive,
		CreatedBy:  command.CreatedBy,
	}

	if err := service.clipRepo.Create(context, record); err != nil {
		return nil, err
	}

	service.logger.Info("clip_created",
		slog.String("clip_id", record.ID),
		slog.String("issue_id", record.IssueID),
		slog.Int("page", record.PageNumber),
	)

	return record, nil
}

/*
UpdateClip applies a partial update to a clip.

Description: Supplied fields are merged over the stored values and the
merged geometry is re-validated in full. Whenever the patch touches any of
x, y, width or height, every cached asset of the clip is deleted in the
same operation — the invalidation is unconditional because assets have no
other expiry mechanism.

Parameters:
  - context: context.Context
  - tenantID, clipID: target clip
  - patch: UpdatePatch

Returns:
  - *Clip: The updated clip
  - error: Validation or NotFound failures
*/
func (service *Service) UpdateClip(context context.Context, tenantID, clipID string, patch UpdatePatch) (*Clip, error) {

	record, err := service.clipRepo.FindByID(context, tenantID, clipID)
	if err != nil {
		return nil, err
	}
	if !record.IsActive() {
		return nil, apperr.NotFound("Clip")
	}

	// Merge supplied fields over stored values
	record.X = pointer.Fallback(patch.X, record.X)
	record.Y = pointer.Fallback(patch.Y, record.Y)
	record.Width = pointer.Fallback(patch.Width, record.Width)
	record.Height = pointer.Fallback(patch.Height, record.Height)
	record.PageNumber = pointer.Fallback(patch.PageNumber, record.PageNumber)
	record.ColumnTag = pointer.Fallback(patch.ColumnTag, record.ColumnTag)
	record.Title = pointer.Fallback(patch.Title, record.Title)
	record.ArticleRef = pointer.Fallback(patch.ArticleRef, record.ArticleRef)
	record.UpdatedBy = patch.UpdatedBy

	if patch.PageNumber != nil {
		owner, err := service.resolveIssue(context, tenantID, record.IssueID)
		if err != nil {
			return nil, err
		}
		if err := ValidatePageNumber(record.PageNumber, owner.PageCount); err != nil {
			return nil, err
		}
	}

	if patch.geometryTouched() {
		if err := ValidateGeometry(record.X, record.Y, record.Width, record.Height, DefaultBounds()); err != nil {
			return nil, err
		}
	}

	if err := service.clipRepo.Update(context, record); err != nil {
		return nil, err
	}

	if patch.geometryTouched() {
		invalidated, err := service.clipRepo.DeleteAssets(context, clipID)
		if err != nil {
			return nil, err
		}
		service.logger.Info("clip_assets_invalidated",
			slog.String("clip_id", clipID),
			slog.Int64("assets", invalidated),
		)
	}

	return record, nil
}

/*
DeleteClip soft-deletes a clip.

Description: The clip transitions to inactive with the actor, timestamp
and reason recorded. The row remains readable via include-inactive
listings; there is no way back to active through the public surface.
*/
func (service *Service) DeleteClip(context context.Context, tenantID, clipID, actorID, reason string) error {

	if reason == "" {
		reason = "deleted"
	}

	if err := service.clipRepo.Deactivate(context, tenantID, clipID, actorID, reason); err != nil {
		return err
	}

	service.logger.Info("clip_deleted",
		slog.String("clip_id", clipID),
		slog.String("actor", actorID),
	)
	return nil
}

/*
BulkCreateClips imports a candidate set all-or-nothing.

Description: Every candidate is validated before anything is persisted. The
first failure aborts the whole batch and names the failing index, so the
importer can fix its payload without guessing. On success the entire set
lands in one transactional batch write.

Parameters:
  - context: context.Context
  - command: BulkCommand

Returns:
  - []*Clip: The stored clips, in candidate order
  - error: Validation failure naming the first bad candidate, or NotFound
*/
func (service *Service) BulkCreateClips(context context.Context, command BulkCommand) ([]*Clip, error) {

	owner, err := service.resolveIssue(context, command.TenantID, command.IssueID)
	if err != nil {
		return nil, err
	}

	if len(command.Candidates) == 0 {
		return nil, apperr.ValidationError("At least one candidate is required")
	}

	source := command.Source
	if source == "" {
		source = SourceManual
	}
	switch source {
	case SourceManual, SourceAuto, SourceImport:
	default:
		return nil, apperr.ValidationError("source must be one of manual, auto, import")
	}

	// Full up-front validation, first failure aborts the batch
	for index, candidate := range command.Candidates {
		if err := ValidatePageNumber(candidate.PageNumber, owner.PageCount); err != nil {
			return nil, apperr.ValidationError(fmt.Sprintf("candidate %d: %s", index, err.Error()))
		}
		if err := ValidateGeometry(candidate.X, candidate.Y, candidate.Width, candidate.Height, DefaultBounds()); err != nil {
			return nil, apperr.ValidationError(fmt.Sprintf("candidate %d: %s", index, err.Error()))
		}
	}

	clips := slice.Map(command.Candidates, func(candidate Candidate) *Clip {
		return &Clip{
			ID:         uuidv7.Must(),
			TenantID:   command.TenantID,
			IssueID:    command.IssueID,
			PageNumber: candidate.PageNumber,
			X:          candidate.X,
			Y:          candidate.Y,
			Width:      candidate.Width,
			Height:     candidate.Height,
			ColumnTag:  candidate.ColumnTag,
			Title:      candidate.Title,
			ArticleRef: candidate.ArticleRef,
			Source:     source,
			Confidence: candidate.Confidence,
			Status:     StatusActive,
			CreatedBy:  command.CreatedBy,
		}
	})

	if err := service.clipRepo.CreateBatch(context, clips); err != nil {
		return nil, err
	}

	service.logger.Info("clips_bulk_created",
		slog.String("issue_id", command.IssueID),
		slog.String("source", string(source)),
		slog.Int("count", len(clips)),
	)

	return clips, nil
}

/*
DetectClips runs the auto-layout pass over an issue.

Description: Retires every currently active auto clip of the issue first,
so repeated runs never stack duplicate active clips, then inserts the
placeholder two-column candidate set for every page. Manual and import
clips are never touched, whatever their geometry.

Parameters:
  - context: context.Context
  - tenantID, issueID: target issue
  - actorID: who triggered the pass

Returns:
  - []*Clip: The freshly inserted auto clips
  - error: NotFound or storage failures
*/
func (service *Service) DetectClips(context context.Context, tenantID, issueID, actorID string) ([]*Clip, error) {

	owner, err := service.resolveIssue(context, tenantID, issueID)
	if err != nil {
		return nil, err
	}
	if owner.PageCount == 0 {
		return nil, apperr.ValidationError("Issue has no pages to detect clips on")
	}

	retired, err := service.clipRepo.DeactivateAutoByIssue(context, tenantID, issueID, actorID, "superseded by re-detection")
	if err != nil {
		return nil, err
	}

	var clips []*Clip
	for pageNumber := 1; pageNumber <= owner.PageCount; pageNumber++ {
		for _, column := range detectColumns() {
			clips = append(clips, &Clip{
				ID:         uuidv7.Must(),
				TenantID:   tenantID,
				IssueID:    issueID,
				PageNumber: pageNumber,
				X:          column[0],
				Y:          column[1],
				Width:      column[2],
				Height:     column[3],
				Source:     SourceAuto,
				Confidence: pointer.To(detectConfidence),
				Status:     StatusActive,
				CreatedBy:  actorID,
			})
		}
	}

	if err := service.clipRepo.CreateBatch(context, clips); err != nil {
		return nil, err
	}

	service.logger.Info("clips_detected",
		slog.String("issue_id", issueID),
		slog.Int64("retired", retired),
		slog.Int("inserted", len(clips)),
	)

	return clips, nil
}

/*
ListClips returns an issue's clips in reading order.
*/
func (service *Service) ListClips(context context.Context, tenantID, issueID string, options ListOptions) ([]*Clip, error) {

	if _, err := service.resolveIssue(context, tenantID, issueID); err != nil {
		return nil, err
	}

	return service.clipRepo.ListByIssue(context, tenantID, issueID, options)
}

/*
FindClip returns one clip by ID.
*/
func (service *Service) FindClip(context context.Context, tenantID, clipID string) (*Clip, error) {
	return service.clipRepo.FindByID(context, tenantID, clipID)
}
