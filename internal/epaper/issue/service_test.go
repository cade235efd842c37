// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package issue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrikahq/patrika/internal/catalog"
	"github.com/patrikahq/patrika/internal/pipeline/rasterize"
	"github.com/patrikahq/patrika/internal/platform/apperr"
)

// # Fakes

type fakeRepo struct {
	byAddress map[string]*Issue
	pages     map[string][]*Page

	createCalls  int
	replaceCalls int
	deleted      []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byAddress: map[string]*Issue{},
		pages:     map[string][]*Page{},
	}
}

func repoAddressKey(tenantID string, target Target, date time.Time) string {
	return fmt.Sprintf("%s|%s|%s|%s", tenantID, target.Kind, target.ID, date.Format("2006-01-02"))
}

func (r *fakeRepo) FindByID(_ context.Context, tenantID, id string) (*Issue, error) {
	for _, record := range r.byAddress {
		if record.ID == id && record.TenantID == tenantID {
			copied := *record
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Issue")
}

func (r *fakeRepo) FindByAddress(_ context.Context, tenantID string, target Target, date time.Time) (*Issue, error) {
	record, ok := r.byAddress[repoAddressKey(tenantID, target, date)]
	if !ok {
		return nil, apperr.NotFound("Issue")
	}
	copied := *record
	return &copied, nil
}

func (r *fakeRepo) List(_ context.Context, tenantID string, _ ListFilter, _, _ int) ([]*Issue, int, error) {
	var out []*Issue
	for _, record := range r.byAddress {
		if record.TenantID == tenantID {
			out = append(out, record)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) ListPages(_ context.Context, issueID string) ([]*Page, error) {
	return r.pages[issueID], nil
}

func (r *fakeRepo) FindPage(_ context.Context, issueID string, pageNumber int) (*Page, error) {
	for _, page := range r.pages[issueID] {
		if page.PageNumber == pageNumber {
			return page, nil
		}
	}
	return nil, apperr.NotFound("Page")
}

func (r *fakeRepo) Create(_ context.Context, record *Issue, pages []*Page) error {
	r.createCalls++
	r.byAddress[repoAddressKey(record.TenantID, record.Target, record.IssueDate)] = record
	r.pages[record.ID] = pages
	return nil
}

func (r *fakeRepo) Replace(_ context.Context, record *Issue, pages []*Page) error {
	r.replaceCalls++
	r.byAddress[repoAddressKey(record.TenantID, record.Target, record.IssueDate)] = record
	r.pages[record.ID] = pages
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, tenantID, id string) error {
	for key, record := range r.byAddress {
		if record.ID == id && record.TenantID == tenantID {
			delete(r.byAddress, key)
			r.deleted = append(r.deleted, id)
			return nil
		}
	}
	return apperr.NotFound("Issue")
}

func (r *fakeRepo) UpdatePageDerivatives(_ context.Context, pageID, deliveryURL, previewURL string) error {
	for _, pages := range r.pages {
		for _, page := range pages {
			if page.ID == pageID {
				page.DeliveryURL = deliveryURL
				page.PreviewURL = previewURL
				return nil
			}
		}
	}
	return apperr.NotFound("Page")
}

type fakeCache struct {
	entries       map[string]*Issue
	invalidations int
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string]*Issue{}} }

func (c *fakeCache) GetByAddress(_ context.Context, tenantID string, target Target, date time.Time) *Issue {
	return c.entries[repoAddressKey(tenantID, target, date)]
}

func (c *fakeCache) SetByAddress(_ context.Context, cached *Issue) {
	c.entries[repoAddressKey(cached.TenantID, cached.Target, cached.IssueDate)] = cached
}

func (c *fakeCache) Invalidate(_ context.Context, tenantID string, target Target, date time.Time) {
	c.invalidations++
	delete(c.entries, repoAddressKey(tenantID, target, date))
}

type fakeCatalog struct{ missing bool }

func (c *fakeCatalog) ResolveEdition(_ context.Context, _, id string) (*catalog.Edition, error) {
	if c.missing {
		return nil, apperr.NotFound("Edition")
	}
	return &catalog.Edition{ID: id}, nil
}

func (c *fakeCatalog) ResolveSubEdition(_ context.Context, _, id string) (*catalog.SubEdition, error) {
	if c.missing {
		return nil, apperr.NotFound("SubEdition")
	}
	return &catalog.SubEdition{ID: id}, nil
}

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	deletes []string
	putErr  error
}

func newFakeObjects() *fakeObjects { return &fakeObjects{objects: map[string][]byte{}} }

func (o *fakeObjects) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.putErr != nil {
		return "", o.putErr
	}
	o.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (o *fakeObjects) Get(_ context.Context, key string) ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, ok := o.objects[key]
	if !ok {
		return nil, errors.New("object missing: " + key)
	}
	return data, nil
}

func (o *fakeObjects) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.objects, key)
	o.deletes = append(o.deletes, key)
	return nil
}

func (o *fakeObjects) PublicURL(key string) string { return "https://cdn.test/" + key }

type fakeRasterizer struct {
	pageCount int
	truncated bool
	fail      bool
}

func (f *fakeRasterizer) Rasterize(_ context.Context, _ []byte) (*rasterize.Result, error) {
	if f.fail {
		return nil, errors.New("pdftoppm exit status 1")
	}
	pages := make([][]byte, f.pageCount)
	for i := range pages {
		pages[i] = []byte(fmt.Sprintf("png-page-%d", i+1))
	}
	return &rasterize.Result{Pages: pages, Truncated: f.truncated}, nil
}

type fakeEncoder struct{}

func (fakeEncoder) Delivery(master []byte) ([]byte, error) {
	return append([]byte("jpeg:"), master...), nil
}

func (fakeEncoder) Preview(master []byte) ([]byte, error) {
	return append([]byte("card:"), master...), nil
}

// # Harness

type serviceFixture struct {
	service    *Service
	repo       *fakeRepo
	cache      *fakeCache
	objects    *fakeObjects
	rasterizer *fakeRasterizer
	catalog    *fakeCatalog
}

func newFixture(pageCount int) *serviceFixture {
	fixture := &serviceFixture{
		repo:       newFakeRepo(),
		cache:      newFakeCache(),
		objects:    newFakeObjects(),
		rasterizer: &fakeRasterizer{pageCount: pageCount},
		catalog:    &fakeCatalog{},
	}

	fixture.service = NewService(ServiceOptions{
		Repository:    fixture.repo,
		Cache:         fixture.cache,
		Catalog:       fixture.catalog,
		Objects:       fixture.objects,
		Intake:        testIntake(1 << 20),
		Rasterizer:    fixture.rasterizer,
		Encoder:       fakeEncoder{},
		Keys:          NewKeyBuilder("epaper"),
		UploadWorkers: 3,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return fixture
}

func uploadCommand() UploadCommand {
	return UploadCommand{
		TenantID:   "t1",
		EditionID:  "jaipur",
		IssueDate:  "2026-03-09",
		PDF:        pdfBytes(512),
		UploadedBy: "u1",
	}
}

// # Upload

func TestUploadIssueCreatesNewIssue(t *testing.T) {
	fixture := newFixture(4)

	record, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.NoError(t, err)

	assert.Equal(t, 1, fixture.repo.createCalls)
	assert.Zero(t, fixture.repo.replaceCalls)
	assert.Equal(t, 4, record.PageCount)
	assert.False(t, record.Truncated)
	require.Len(t, record.Pages, 4)

	// Pages in order with 1-based numbering and deterministic keys
	for i, page := range record.Pages {
		assert.Equal(t, i+1, page.PageNumber)
		assert.Equal(t,
			fmt.Sprintf("https://cdn.test/epaper/t1/edition/jaipur/2026-03-09/pages/page-%04d.png", i+1),
			page.ImageURL)
	}

	// Cover is always page 1's raster
	assert.Equal(t, record.Pages[0].ImageURL, record.CoverImageURL)

	// The archived PDF and every page master are in storage
	assert.Contains(t, fixture.objects.objects, "epaper/t1/edition/jaipur/2026-03-09/issue.pdf")
	assert.Len(t, fixture.objects.objects, 5)
}

func TestUploadIssueReplacesInPlace(t *testing.T) {
	fixture := newFixture(12)

	first, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.NoError(t, err)

	// Second upload of the same address with fewer pages
	fixture.rasterizer.pageCount = 10
	second, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.NoError(t, err)

	assert.Equal(t, 1, fixture.repo.createCalls)
	assert.Equal(t, 1, fixture.repo.replaceCalls)

	// Replacement keeps the issue identity
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 10, second.PageCount)

	// Trailing pages 11 and 12 are cleaned from storage: master,
	// delivery and preview objects each.
	assert.Len(t, fixture.objects.deletes, 6)
	for _, suffix := range []string{
		"pages/page-0011.png", "pages/page-0012.png",
		"pages/page-0011.jpg", "pages/page-0012.jpg",
		"pages/preview-0011.jpg", "pages/preview-0012.jpg",
	} {
		found := false
		for _, key := range fixture.objects.deletes {
			if strings.HasSuffix(key, suffix) {
				found = true
				break
			}
		}
		assert.True(t, found, "expected cleanup of %s", suffix)
	}

	// Surviving page masters were overwritten, not orphaned
	assert.NotContains(t, fixture.objects.objects, "epaper/t1/edition/jaipur/2026-03-09/pages/page-0011.png")
	assert.Contains(t, fixture.objects.objects, "epaper/t1/edition/jaipur/2026-03-09/pages/page-0010.png")
}

func TestUploadIssueGrowingReplaceSkipsCleanup(t *testing.T) {
	fixture := newFixture(8)

	_, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.NoError(t, err)

	fixture.rasterizer.pageCount = 12
	_, err = fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.NoError(t, err)

	assert.Empty(t, fixture.objects.deletes)
}

func TestUploadIssueRasterizerFailureIsFatal(t *testing.T) {
	fixture := newFixture(0)
	fixture.rasterizer.fail = true

	_, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_FAILURE", apperr.As(err).Code)

	// No relational write and no storage write happened
	assert.Zero(t, fixture.repo.createCalls)
	assert.Empty(t, fixture.objects.objects)
}

func TestUploadIssueZeroPagesIsFatal(t *testing.T) {
	// A rasterizer that returns cleanly but yields no pages must not
	// produce an issue record with a dangling cover reference.
	fixture := newFixture(0)

	_, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_FAILURE", apperr.As(err).Code)
	assert.Zero(t, fixture.repo.createCalls)
}

func TestUploadIssueStorageFailureIsFatal(t *testing.T) {
	fixture := newFixture(4)
	fixture.objects.putErr = errors.New("bucket unavailable")

	_, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_FAILURE", apperr.As(err).Code)
	assert.Zero(t, fixture.repo.createCalls)
}

func TestUploadIssueRejectsAmbiguousTarget(t *testing.T) {
	fixture := newFixture(4)

	command := uploadCommand()
	command.SubEditionID = "sikar"

	_, err := fixture.service.UploadIssue(t.Context(), command)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestUploadIssueRejectsBadDate(t *testing.T) {
	fixture := newFixture(4)

	command := uploadCommand()
	command.IssueDate = "09-03-2026"

	_, err := fixture.service.UploadIssue(t.Context(), command)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestUploadIssueUnknownTarget(t *testing.T) {
	fixture := newFixture(4)
	fixture.catalog.missing = true

	_, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestUploadIssuePropagatesTruncation(t *testing.T) {
	fixture := newFixture(6)
	fixture.rasterizer.truncated = true

	record, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.NoError(t, err)
	assert.True(t, record.Truncated)
}

func TestUploadIssueInvalidatesCache(t *testing.T) {
	fixture := newFixture(4)

	_, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.NoError(t, err)
	assert.Equal(t, 1, fixture.cache.invalidations)
}

// # Existence Probe

func TestCheckExists(t *testing.T) {
	fixture := newFixture(4)

	probe, err := fixture.service.CheckExists(t.Context(), "t1", "jaipur", "", "2026-03-09")
	require.NoError(t, err)
	assert.False(t, probe.Exists)
	assert.Equal(t, ActionSafeToUpload, probe.Action)

	_, err = fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.NoError(t, err)

	probe, err = fixture.service.CheckExists(t.Context(), "t1", "jaipur", "", "2026-03-09")
	require.NoError(t, err)
	assert.True(t, probe.Exists)
	assert.Equal(t, ActionReplace, probe.Action)
	require.NotNil(t, probe.Issue)
	assert.Equal(t, 4, probe.Issue.PageCount)
}

// # Reads

func TestGetIssueReadsThroughCache(t *testing.T) {
	fixture := newFixture(3)

	_, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.NoError(t, err)

	first, err := fixture.service.GetIssue(t.Context(), "t1", "jaipur", "", "2026-03-09")
	require.NoError(t, err)
	require.Len(t, first.Pages, 3)

	// The hydrated record is now cached under its address
	assert.NotNil(t, fixture.cache.GetByAddress(t.Context(), "t1", first.Target, first.IssueDate))

	second, err := fixture.service.GetIssue(t.Context(), "t1", "jaipur", "", "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestGetIssueTenantMismatchIsNotFound(t *testing.T) {
	fixture := newFixture(3)

	_, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.NoError(t, err)

	_, err = fixture.service.GetIssue(t.Context(), "other-tenant", "jaipur", "", "2026-03-09")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Delete

func TestDeleteIssueCleansStorage(t *testing.T) {
	fixture := newFixture(4)

	record, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.NoError(t, err)

	attempted, err := fixture.service.DeleteIssue(t.Context(), "t1", record.ID)
	require.NoError(t, err)

	// PDF plus master/delivery/preview per page
	assert.Len(t, attempted, 1+4*3)
	assert.Equal(t, []string{record.ID}, fixture.repo.deleted)
	assert.Empty(t, fixture.objects.objects)
	assert.Equal(t, 2, fixture.cache.invalidations) // upload + delete
}

func TestDeleteIssueUnknownID(t *testing.T) {
	fixture := newFixture(4)

	_, err := fixture.service.DeleteIssue(t.Context(), "t1", "no-such-id")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Derivatives

func TestGeneratePageDerivatives(t *testing.T) {
	fixture := newFixture(4)

	record, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.NoError(t, err)

	page, err := fixture.service.GeneratePageDerivatives(t.Context(), "t1", record.ID, 2)
	require.NoError(t, err)

	assert.Equal(t,
		"https://cdn.test/epaper/t1/edition/jaipur/2026-03-09/pages/page-0002.jpg",
		page.DeliveryURL)
	assert.Equal(t,
		"https://cdn.test/epaper/t1/edition/jaipur/2026-03-09/pages/preview-0002.jpg",
		page.PreviewURL)

	// The derivative bytes were encoded from the stored master
	delivery, err := fixture.objects.Get(t.Context(), "epaper/t1/edition/jaipur/2026-03-09/pages/page-0002.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg:png-page-2", string(delivery))

	// The page row carries the fresh URLs
	stored, err := fixture.repo.FindPage(t.Context(), record.ID, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.DeliveryURL)
}

func TestGeneratePageDerivativesUnknownPage(t *testing.T) {
	fixture := newFixture(2)

	record, err := fixture.service.UploadIssue(t.Context(), uploadCommand())
	require.NoError(t, err)

	_, err = fixture.service.GeneratePageDerivatives(t.Context(), "t1", record.ID, 9)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
