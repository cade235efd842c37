// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrikahq/patrika/internal/platform/apperr"
)

// # Test Fakes

type fakeCatalogRepo struct {
	editions    map[string]*Edition
	subEditions map[string]*SubEdition
	deleted     []string
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		editions:    make(map[string]*Edition),
		subEditions: make(map[string]*SubEdition),
	}
}

func (repo *fakeCatalogRepo) FindEdition(_ context.Context, tenantID, id string) (*Edition, error) {
	edition, ok := repo.editions[id]
	if !ok || edition.TenantID != tenantID || edition.DeletedAt != nil {
		return nil, apperr.NotFound("Edition")
	}
	return edition, nil
}

func (repo *fakeCatalogRepo) FindSubEdition(_ context.Context, tenantID, id string) (*SubEdition, error) {
	subEdition, ok := repo.subEditions[id]
	if !ok || subEdition.TenantID != tenantID || subEdition.DeletedAt != nil {
		return nil, apperr.NotFound("SubEdition")
	}
	return subEdition, nil
}

func (repo *fakeCatalogRepo) ListEditions(_ context.Context, tenantID string) ([]*Edition, error) {
	result := make([]*Edition, 0)
	for _, edition := range repo.editions {
		if edition.TenantID == tenantID && edition.DeletedAt == nil {
			result = append(result, edition)
		}
	}
	return result, nil
}

func (repo *fakeCatalogRepo) ListSubEditions(_ context.Context, tenantID, editionID string) ([]*SubEdition, error) {
	result := make([]*SubEdition, 0)
	for _, subEdition := range repo.subEditions {
		if subEdition.TenantID == tenantID && subEdition.EditionID == editionID && subEdition.DeletedAt == nil {
			result = append(result, subEdition)
		}
	}
	return result, nil
}

func (repo *fakeCatalogRepo) CreateEdition(_ context.Context, edition *Edition) error {
	repo.editions[edition.ID] = edition
	return nil
}

func (repo *fakeCatalogRepo) CreateSubEdition(_ context.Context, subEdition *SubEdition) error {
	repo.subEditions[subEdition.ID] = subEdition
	return nil
}

func (repo *fakeCatalogRepo) SoftDeleteEdition(_ context.Context, tenantID, id string) error {
	if _, err := repo.FindEdition(context.Background(), tenantID, id); err != nil {
		return err
	}
	repo.deleted = append(repo.deleted, id)
	delete(repo.editions, id)
	return nil
}

func (repo *fakeCatalogRepo) SoftDeleteSubEdition(_ context.Context, tenantID, id string) error {
	if _, err := repo.FindSubEdition(context.Background(), tenantID, id); err != nil {
		return err
	}
	repo.deleted = append(repo.deleted, id)
	delete(repo.subEditions, id)
	return nil
}

func newCatalogService(repo Repository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// # Edition Tests

func TestCreateEditionGeneratesIdentityAndSlug(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newCatalogService(repo)

	edition := &Edition{TenantID: "t1", Name: "Rajasthan Patrika"}
	require.NoError(t, service.CreateEdition(t.Context(), edition))

	assert.NotEmpty(t, edition.ID)
	assert.Equal(t, "rajasthan-patrika", edition.Slug)
	assert.Contains(t, repo.editions, edition.ID)
}

func TestCreateEditionKeepsExplicitSlug(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newCatalogService(repo)

	edition := &Edition{TenantID: "t1", Name: "Rajasthan", Slug: "raj"}
	require.NoError(t, service.CreateEdition(t.Context(), edition))

	assert.Equal(t, "raj", edition.Slug)
}

func TestCreateEditionRequiresName(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newCatalogService(repo)

	err := service.CreateEdition(t.Context(), &Edition{TenantID: "t1"})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Empty(t, repo.editions)
}

func TestResolveEditionTenantScoped(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newCatalogService(repo)

	edition := &Edition{TenantID: "t1", Name: "Rajasthan"}
	require.NoError(t, service.CreateEdition(t.Context(), edition))

	resolved, err := service.ResolveEdition(t.Context(), "t1", edition.ID)
	require.NoError(t, err)
	assert.Equal(t, edition.ID, resolved.ID)

	// The same ID under another tenant reads as missing, never forbidden.
	_, err = service.ResolveEdition(t.Context(), "t2", edition.ID)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

// # Sub-Edition Tests

func TestCreateSubEditionRequiresLiveParent(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newCatalogService(repo)

	err := service.CreateSubEdition(t.Context(), &SubEdition{
		TenantID:  "t1",
		EditionID: "missing-edition",
		Name:      "Jaipur City",
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
	assert.Empty(t, repo.subEditions)
}

func TestCreateSubEditionUnderParent(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newCatalogService(repo)

	edition := &Edition{TenantID: "t1", Name: "Rajasthan"}
	require.NoError(t, service.CreateEdition(t.Context(), edition))

	subEdition := &SubEdition{
		TenantID:  "t1",
		EditionID: edition.ID,
		Name:      "Jaipur City",
		District:  "Jaipur",
	}
	require.NoError(t, service.CreateSubEdition(t.Context(), subEdition))

	assert.NotEmpty(t, subEdition.ID)
	assert.Equal(t, "jaipur-city", subEdition.Slug)

	listed, err := service.ListSubEditions(t.Context(), "t1", edition.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, subEdition.ID, listed[0].ID)
}

func TestCreateSubEditionParentInOtherTenant(t *testing.T) {
	repo := newFakeCatalogRepo()
	service := newCatalogService(repo)

	edition := &Edition{TenantID: "t1", Name: "Rajasthan"}
	require.NoError(t, service.CreateEdition(t.Context(), edition))

	err := service.CreateSubEdition(t.Context(), &SubEdition{
		TenantID:  "t2",
		EditionID: edition.ID,
		Name:      "Jaipur City",
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}
