// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/patrikahq/patrika/internal/platform/middleware"
	requestutil "github.com/patrikahq/patrika/internal/platform/request"
	"github.com/patrikahq/patrika/internal/platform/respond"
	"github.com/patrikahq/patrika/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the catalog route group.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.Get("/editions", handler.listEditions)
	router.Get("/editions/{editionID}/sub-editions", handler.listSubEditions)

	// Catalog mutations require tenant-admin rights.
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Post("/editions", handler.createEdition)
		admin.Delete("/editions/{editionID}", handler.deleteEdition)
		admin.Post("/editions/{editionID}/sub-editions", handler.createSubEdition)
		admin.Delete("/sub-editions/{subEditionID}", handler.deleteSubEdition)
	})

	return router
}

func (handler *Handler) listEditions(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	editions, err := handler.service.ListEditions(request.Context(), tenantID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, editions)
}

func (handler *Handler) createEdition(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload struct {
		Name      string `json:"name"`
		Slug      string `json:"slug"`
		StateCode string `json:"state_code"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	edition := &Edition{
		TenantID:  tenantID,
		Name:      payload.Name,
		Slug:      payload.Slug,
		StateCode: payload.StateCode,
	}

	if err := handler.service.CreateEdition(request.Context(), edition); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, edition)
}

func (handler *Handler) deleteEdition(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteEdition(request.Context(), tenantID, requestutil.ID(request, "editionID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) listSubEditions(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	subEditions, err := handler.service.ListSubEditions(request.Context(), tenantID, requestutil.ID(request, "editionID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, subEditions)
}

func (handler *Handler) createSubEdition(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload struct {
		Name     string `json:"name"`
		Slug     string `json:"slug"`
		District string `json:"district"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	subEdition := &SubEdition{
		TenantID:  tenantID,
		EditionID: requestutil.ID(request, "editionID"),
		Name:      payload.Name,
		Slug:      payload.Slug,
		District:  payload.District,
	}

	if err := handler.service.CreateSubEdition(request.Context(), subEdition); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, subEdition)
}

func (handler *Handler) deleteSubEdition(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteSubEdition(request.Context(), tenantID, requestutil.ID(request, "subEditionID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
