// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package clip

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrikahq/patrika/internal/epaper/issue"
	"github.com/patrikahq/patrika/internal/platform/apperr"
	"github.com/patrikahq/patrika/pkg/pointer"
)

// # Fakes

type fakeClipRepo struct {
	clips  map[string]*Clip
	assets map[string]int
}

func newFakeClipRepo() *fakeClipRepo {
	return &fakeClipRepo{clips: map[string]*Clip{}, assets: map[string]int{}}
}

func (r *fakeClipRepo) FindByID(_ context.Context, tenantID, id string) (*Clip, error) {
	record, ok := r.clips[id]
	if !ok || record.TenantID != tenantID {
		return nil, apperr.NotFound("Clip")
	}
	copied := *record
	return &copied, nil
}

func (r *fakeClipRepo) ListByIssue(_ context.Context, tenantID, issueID string, options ListOptions) ([]*Clip, error) {
	var out []*Clip
	for _, record := range r.clips {
		if record.TenantID != tenantID || record.IssueID != issueID {
			continue
		}
		if !options.IncludeInactive && !record.IsActive() {
			continue
		}
		if options.PageNumber > 0 && record.PageNumber != options.PageNumber {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PageNumber != out[j].PageNumber {
			return out[i].PageNumber < out[j].PageNumber
		}
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out, nil
}

func (r *fakeClipRepo) Create(_ context.Context, record *Clip) error {
	copied := *record
	r.clips[record.ID] = &copied
	return nil
}

func (r *fakeClipRepo) CreateBatch(_ context.Context, clips []*Clip) error {
	for _, record := range clips {
		copied := *record
		r.clips[record.ID] = &copied
	}
	return nil
}

func (r *fakeClipRepo) Update(_ context.Context, record *Clip) error {
	stored, ok := r.clips[record.ID]
	if !ok || stored.TenantID != record.TenantID {
		return apperr.NotFound("Clip")
	}
	copied := *record
	r.clips[record.ID] = &copied
	return nil
}

func (r *fakeClipRepo) Deactivate(_ context.Context, tenantID, id, actorID, reason string) error {
	record, ok := r.clips[id]
	if !ok || record.TenantID != tenantID || !record.IsActive() {
		return apperr.NotFound("Clip")
	}
	now := time.Now()
	record.Status = StatusInactive
	record.DeactivatedAt = &now
	record.DeactivatedBy = actorID
	record.DeactivateReason = reason
	return nil
}

func (r *fakeClipRepo) DeactivateAutoByIssue(_ context.Context, tenantID, issueID, actorID, reason string) (int64, error) {
	var retired int64
	now := time.Now()
	for _, record := range r.clips {
		if record.TenantID == tenantID && record.IssueID == issueID &&
			record.Source == SourceAuto && record.IsActive() {
			record.Status = StatusInactive
			record.DeactivatedAt = &now
			record.DeactivatedBy = actorID
			record.DeactivateReason = reason
			retired++
		}
	}
	return retired, nil
}

func (r *fakeClipRepo) DeleteAssets(_ context.Context, clipID string) (int64, error) {
	deleted := int64(r.assets[clipID])
	r.assets[clipID] = 0
	return deleted, nil
}

func (r *fakeClipRepo) CountAssets(_ context.Context, clipID string) (int, error) {
	return r.assets[clipID], nil
}

type fakeIssues struct {
	issues map[string]*issue.Issue
}

func (f *fakeIssues) FindIssue(_ context.Context, tenantID, id string) (*issue.Issue, error) {
	record, ok := f.issues[id]
	if !ok || record.TenantID != tenantID {
		return nil, apperr.NotFound("Issue")
	}
	return record, nil
}

// # Harness

type clipFixture struct {
	service *Service
	repo    *fakeClipRepo
	issues  *fakeIssues
}

func newClipFixture(pageCount int) *clipFixture {
	fixture := &clipFixture{
		repo: newFakeClipRepo(),
		issues: &fakeIssues{issues: map[string]*issue.Issue{
			"iss-1": {ID: "iss-1", TenantID: "t1", PageCount: pageCount},
		}},
	}
	fixture.service = NewService(fixture.repo, fixture.issues,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return fixture
}

func createCommand() CreateCommand {
	return CreateCommand{
		TenantID:   "t1",
		IssueID:    "iss-1",
		PageNumber: 1,
		X:          0, Y: 0, Width: 306, Height: 792,
		Title:     "Front page lead",
		CreatedBy: "u1",
	}
}

// # Create

func TestCreateClip(t *testing.T) {
	fixture := newClipFixture(12)

	record, err := fixture.service.CreateClip(t.Context(), createCommand())
	require.NoError(t, err)

	assert.Equal(t, SourceManual, record.Source)
	assert.Equal(t, StatusActive, record.Status)
	assert.True(t, record.IsActive())

	// Stored fields exactly match the inputs
	stored, err := fixture.repo.FindByID(t.Context(), "t1", record.ID)
	require.NoError(t, err)
	assert.Equal(t, 306.0, stored.Width)
	assert.Equal(t, 792.0, stored.Height)
	assert.Equal(t, "Front page lead", stored.Title)
}

func TestCreateClipNamesViolatedBound(t *testing.T) {
	fixture := newClipFixture(12)

	command := createCommand()
	command.X = -1

	_, err := fixture.service.CreateClip(t.Context(), command)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.Contains(t, err.Error(), "x must not be negative")

	// No row was persisted
	assert.Empty(t, fixture.repo.clips)
}

func TestCreateClipChecksPageCount(t *testing.T) {
	fixture := newClipFixture(8)

	command := createCommand()
	command.PageNumber = 9

	_, err := fixture.service.CreateClip(t.Context(), command)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.Empty(t, fixture.repo.clips)
}

func TestCreateClipTenantMismatchIsNotFound(t *testing.T) {
	fixture := newClipFixture(12)

	command := createCommand()
	command.TenantID = "other"

	_, err := fixture.service.CreateClip(t.Context(), command)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Update

func TestUpdateClipGeometryInvalidatesAssets(t *testing.T) {
	fixture := newClipFixture(12)

	record, err := fixture.service.CreateClip(t.Context(), createCommand())
	require.NoError(t, err)
	fixture.repo.assets[record.ID] = 3

	updated, err := fixture.service.UpdateClip(t.Context(), "t1", record.ID, UpdatePatch{
		X:         pointer.To(10.0),
		UpdatedBy: "u2",
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, updated.X)

	// Unconditional invalidation on any geometry change
	count, err := fixture.repo.CountAssets(t.Context(), record.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdateClipMetadataKeepsAssets(t *testing.T) {
	fixture := newClipFixture(12)

	record, err := fixture.service.CreateClip(t.Context(), createCommand())
	require.NoError(t, err)
	fixture.repo.assets[record.ID] = 3

	_, err = fixture.service.UpdateClip(t.Context(), "t1", record.ID, UpdatePatch{
		Title:     pointer.To("New headline"),
		UpdatedBy: "u2",
	})
	require.NoError(t, err)

	count, err := fixture.repo.CountAssets(t.Context(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUpdateClipRevalidatesMergedGeometry(t *testing.T) {
	fixture := newClipFixture(12)

	record, err := fixture.service.CreateClip(t.Context(), createCommand())
	require.NoError(t, err)

	// Moving x so that x+width crosses the ceiling must fail even though
	// width itself is untouched.
	_, err = fixture.service.UpdateClip(t.Context(), "t1", record.ID, UpdatePatch{
		X: pointer.To(DefaultPageWidth - 100),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x + width exceeds")

	// The stored row is unchanged
	stored, err := fixture.repo.FindByID(t.Context(), "t1", record.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stored.X)
}

func TestUpdateClipInactiveIsNotFound(t *testing.T) {
	fixture := newClipFixture(12)

	record, err := fixture.service.CreateClip(t.Context(), createCommand())
	require.NoError(t, err)
	require.NoError(t, fixture.service.DeleteClip(t.Context(), "t1", record.ID, "u1", ""))

	_, err = fixture.service.UpdateClip(t.Context(), "t1", record.ID, UpdatePatch{X: pointer.To(5.0)})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Soft Delete

func TestDeleteClipIsSoft(t *testing.T) {
	fixture := newClipFixture(12)

	record, err := fixture.service.CreateClip(t.Context(), createCommand())
	require.NoError(t, err)

	require.NoError(t, fixture.service.DeleteClip(t.Context(), "t1", record.ID, "u2", "duplicate region"))

	// Excluded from the default listing
	active, err := fixture.service.ListClips(t.Context(), "t1", "iss-1", ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, active)

	// Present with its transition record under include-inactive
	all, err := fixture.service.ListClips(t.Context(), "t1", "iss-1", ListOptions{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive())
	assert.NotNil(t, all[0].DeactivatedAt)
	assert.Equal(t, "u2", all[0].DeactivatedBy)
	assert.Equal(t, "duplicate region", all[0].DeactivateReason)
}

// # Bulk Import

func TestBulkCreateClips(t *testing.T) {
	fixture := newClipFixture(12)

	clips, err := fixture.service.BulkCreateClips(t.Context(), BulkCommand{
		TenantID: "t1",
		IssueID:  "iss-1",
		Source:   SourceImport,
		Candidates: []Candidate{
			{PageNumber: 1, X: 0, Y: 0, Width: 100, Height: 200},
			{PageNumber: 2, X: 50, Y: 60, Width: 100, Height: 200, Confidence: pointer.To(0.9)},
		},
		CreatedBy: "importer",
	})
	require.NoError(t, err)
	require.Len(t, clips, 2)

	assert.Equal(t, SourceImport, clips[0].Source)
	require.NotNil(t, clips[1].Confidence)
	assert.Equal(t, 0.9, *clips[1].Confidence)
	assert.Len(t, fixture.repo.clips, 2)
}

func TestBulkCreateClipsFailsWholeBatchNamingIndex(t *testing.T) {
	fixture := newClipFixture(12)

	_, err := fixture.service.BulkCreateClips(t.Context(), BulkCommand{
		TenantID: "t1",
		IssueID:  "iss-1",
		Candidates: []Candidate{
			{PageNumber: 1, X: 0, Y: 0, Width: 100, Height: 200},
			{PageNumber: 1, X: 0, Y: 0, Width: -5, Height: 200},
			{PageNumber: 1, X: 0, Y: 0, Width: 100, Height: 200},
		},
		CreatedBy: "importer",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidate 1:")

	// Nothing persisted, including the valid candidates
	assert.Empty(t, fixture.repo.clips)
}

func TestBulkCreateClipsDefaultsToManualSource(t *testing.T) {
	fixture := newClipFixture(12)

	clips, err := fixture.service.BulkCreateClips(t.Context(), BulkCommand{
		TenantID:   "t1",
		IssueID:    "iss-1",
		Candidates: []Candidate{{PageNumber: 1, X: 0, Y: 0, Width: 10, Height: 10}},
		CreatedBy:  "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, SourceManual, clips[0].Source)
}

// # Auto Detection

func TestDetectClipsTwoColumnsPerPage(t *testing.T) {
	fixture := newClipFixture(3)

	clips, err := fixture.service.DetectClips(t.Context(), "t1", "iss-1", "detector")
	require.NoError(t, err)
	require.Len(t, clips, 6)

	for _, record := range clips {
		assert.Equal(t, SourceAuto, record.Source)
		assert.Equal(t, StatusActive, record.Status)
		require.NotNil(t, record.Confidence)
	}
}

func TestDetectClipsRunTwiceLeavesOnlySecondRunActive(t *testing.T) {
	fixture := newClipFixture(2)

	// A manual clip present before either run
	manual, err := fixture.service.CreateClip(t.Context(), createCommand())
	require.NoError(t, err)

	first, err := fixture.service.DetectClips(t.Context(), "t1", "iss-1", "detector")
	require.NoError(t, err)

	second, err := fixture.service.DetectClips(t.Context(), "t1", "iss-1", "detector")
	require.NoError(t, err)

	// Every first-run auto clip is now inactive
	for _, record := range first {
		stored, err := fixture.repo.FindByID(t.Context(), "t1", record.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsActive())
	}

	// Every second-run clip is active
	for _, record := range second {
		stored, err := fixture.repo.FindByID(t.Context(), "t1", record.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsActive())
	}

	// The manual clip is untouched despite overlapping geometry
	stored, err := fixture.repo.FindByID(t.Context(), "t1", manual.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive())

	// Default listing: manual + second-run autos only
	active, err := fixture.service.ListClips(t.Context(), "t1", "iss-1", ListOptions{})
	require.NoError(t, err)
	assert.Len(t, active, 1+len(second))
}

// # Listing

func TestListClipsReadingOrder(t *testing.T) {
	fixture := newClipFixture(4)

	coords := []struct {
		page int
		x, y float64
	}{
		{2, 0, 0},
		{1, 300, 100},
		{1, 0, 100},
		{1, 0, 500},
	}
	for _, c := range coords {
		command := createCommand()
		command.PageNumber = c.page
		command.X = c.x
		command.Y = c.y
		command.Width = 100
		command.Height = 100
		_, err := fixture.service.CreateClip(t.Context(), command)
		require.NoError(t, err)
	}

	clips, err := fixture.service.ListClips(t.Context(), "t1", "iss-1", ListOptions{})
	require.NoError(t, err)
	require.Len(t, clips, 4)

	// Page ascending, then top-to-bottom, then left-to-right
	assert.Equal(t, 1, clips[0].PageNumber)
	assert.Equal(t, 0.0, clips[0].X)
	assert.Equal(t, 100.0, clips[0].Y)
	assert.Equal(t, 300.0, clips[1].X)
	assert.Equal(t, 500.0, clips[2].Y)
	assert.Equal(t, 2, clips[3].PageNumber)
}

func TestListClipsPageFilter(t *testing.T) {
	fixture := newClipFixture(4)

	for page := 1; page <= 3; page++ {
		command := createCommand()
		command.PageNumber = page
		_, err := fixture.service.CreateClip(t.Context(), command)
		require.NoError(t, err)
	}

	clips, err := fixture.service.ListClips(t.Context(), "t1", "iss-1", ListOptions{PageNumber: 2})
	require.NoError(t, err)
	require.Len(t, clips, 1)
	assert.Equal(t, 2, clips[0].PageNumber)
}
