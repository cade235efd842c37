// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package clip

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/patrikahq/patrika/internal/platform/middleware"
	requestutil "github.com/patrikahq/patrika/internal/platform/request"
	"github.com/patrikahq/patrika/internal/platform/respond"
	"github.com/patrikahq/patrika/internal/platform/sec"
	"github.com/patrikahq/patrika/pkg/convert"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// IssueRoutes returns the issue-scoped clip endpoints, mounted under
// /issues/{issueID}/clips.
func (handler *Handler) IssueRoutes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listClips)

	// Clip mutations require at least editor rights.
	router.Group(func(editor chi.Router) {
		editor.Use(middleware.RequireRole(sec.RoleEditor))
		editor.Post("/", handler.createClip)
		editor.Post("/bulk", handler.bulkCreateClips)
		editor.Post("/detect", handler.detectClips)
	})

	return router
}

// Routes returns the clip-addressed endpoints, mounted under /clips.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.Get("/{clipID}", handler.findClip)

	router.Group(func(editor chi.Router) {
		editor.Use(middleware.RequireRole(sec.RoleEditor))
		editor.Patch("/{clipID}", handler.updateClip)
		editor.Delete("/{clipID}", handler.deleteClip)
	})

	return router
}

func (handler *Handler) listClips(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	options := ListOptions{
		IncludeInactive: convert.ToBool(requestutil.Param(request, "includeInactive")),
		PageNumber:      convert.ToInt(requestutil.Param(request, "page")),
	}

	clips, err := handler.service.ListClips(request.Context(), tenantID, requestutil.ID(request, "issueID"), options)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, clips)
}

func (handler *Handler) findClip(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.FindClip(request.Context(), tenantID, requestutil.ID(request, "clipID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) createClip(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload struct {
		PageNumber int     `json:"pageNumber"`
		X          float64 `json:"x"`
		Y          float64 `json:"y"`
		Width      float64 `json:"width"`
		Height     float64 `json:"height"`
		ColumnTag  string  `json:"columnTag"`
		Title      string  `json:"title"`
		ArticleRef string  `json:"articleRef"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.CreateClip(request.Context(), CreateCommand{
		TenantID:   admin.TenantID,
		IssueID:    requestutil.ID(request, "issueID"),
		PageNumber: payload.PageNumber,
		X:          payload.X,
		Y:          payload.Y,
		Width:      payload.Width,
		Height:     payload.Height,
		ColumnTag:  payload.ColumnTag,
		Title:      payload.Title,
		ArticleRef: payload.ArticleRef,
		CreatedBy:  admin.UserID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

func (handler *Handler) updateClip(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload struct {
		X          *float64 `json:"x"`
		Y          *float64 `json:"y"`
		Width      *float64 `json:"width"`
		Height     *float64 `json:"height"`
		PageNumber *int     `json:"pageNumber"`
		ColumnTag  *string  `json:"columnTag"`
		Title      *string  `json:"title"`
		ArticleRef *string  `json:"articleRef"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.UpdateClip(request.Context(), admin.TenantID, requestutil.ID(request, "clipID"), UpdatePatch{
		X:          payload.X,
		Y:          payload.Y,
		Width:      payload.Width,
		Height:     payload.Height,
		PageNumber: payload.PageNumber,
		ColumnTag:  payload.ColumnTag,
		Title:      payload.Title,
		ArticleRef: payload.ArticleRef,
		UpdatedBy:  admin.UserID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) deleteClip(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reason := requestutil.Param(request, "reason")
	if err := handler.service.DeleteClip(request.Context(), admin.TenantID, requestutil.ID(request, "clipID"), admin.UserID, reason); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) bulkCreateClips(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload struct {
		Source     string      `json:"source"`
		Candidates []Candidate `json:"candidates"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clips, err := handler.service.BulkCreateClips(request.Context(), BulkCommand{
		TenantID:   admin.TenantID,
		IssueID:    requestutil.ID(request, "issueID"),
		Source:     Source(payload.Source),
		Candidates: payload.Candidates,
		CreatedBy:  admin.UserID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, clips)
}

func (handler *Handler) detectClips(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	clips, err := handler.service.DetectClips(request.Context(), admin.TenantID, requestutil.ID(request, "issueID"), admin.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, clips)
}
