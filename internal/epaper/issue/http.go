// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package issue

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/patrikahq/patrika/internal/platform/apperr"
	"github.com/patrikahq/patrika/internal/platform/middleware"
	requestutil "github.com/patrikahq/patrika/internal/platform/request"
	"github.com/patrikahq/patrika/internal/platform/respond"
	"github.com/patrikahq/patrika/internal/platform/sec"
	"github.com/patrikahq/patrika/internal/platform/validate"
	"github.com/patrikahq/patrika/pkg/convert"
	"github.com/patrikahq/patrika/pkg/pagination"
)

type Handler struct {
	service  *Service
	maxBytes int64
}

func NewHandler(service *Service, maxBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

// Routes returns the issue route group.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listIssues)
	router.Get("/exists", handler.checkExists)
	router.Get("/by-date", handler.getByAddress)
	router.Get("/{issueID}", handler.findIssue)

	// Ingestion and deletion require at least editor rights.
	router.Group(func(editor chi.Router) {
		editor.Use(middleware.RequireRole(sec.RoleEditor))
		editor.Post("/", handler.uploadIssue)
		editor.Delete("/{issueID}", handler.deleteIssue)
		editor.Post("/{issueID}/pages/{pageNumber}/derivatives", handler.generateDerivatives)
	})

	return router
}

// uploadIssue accepts either a multipart upload carrying the PDF or a JSON
// body naming a remote sourceUrl.
func (handler *Handler) uploadIssue(writer http.ResponseWriter, request *http.Request) {
	admin, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	command := UploadCommand{
		TenantID:   admin.TenantID,
		UploadedBy: admin.UserID,
	}

	if strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/form-data") {
		// Body cap one byte past the ceiling so intake can distinguish
		// at-limit from over-limit.
		request.Body = http.MaxBytesReader(writer, request.Body, handler.maxBytes+1)

		if err := request.ParseMultipartForm(32 << 20); err != nil {
			respond.Error(writer, request, apperr.SizeLimit("Uploaded file exceeds the size limit"))
			return
		}

		file, _, err := request.FormFile("file")
		if err != nil {
			respond.Error(writer, request, apperr.ValidationError("A PDF must be attached under the 'file' field"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			respond.Error(writer, request, apperr.Internal(err))
			return
		}

		command.PDF = data
		command.EditionID = request.FormValue("editionId")
		command.SubEditionID = request.FormValue("subEditionId")
		command.IssueDate = request.FormValue("issueDate")
	} else {
		var payload struct {
			EditionID    string `json:"editionId"`
			SubEditionID string `json:"subEditionId"`
			IssueDate    string `json:"issueDate"`
			SourceURL    string `json:"sourceUrl"`
		}
		if err := requestutil.DecodeJSON(request, &payload); err != nil {
			respond.Error(writer, request, err)
			return
		}

		command.EditionID = payload.EditionID
		command.SubEditionID = payload.SubEditionID
		command.IssueDate = payload.IssueDate
		command.SourceURL = payload.SourceURL
	}

	record, err := handler.service.UploadIssue(request.Context(), command)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

func (handler *Handler) listIssues(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := ListFilter{}
	if editionID := requestutil.Param(request, "editionId"); editionID != "" {
		filter.Target = &Target{Kind: TargetEdition, ID: editionID}
	}
	if subEditionID := requestutil.Param(request, "subEditionId"); subEditionID != "" {
		filter.Target = &Target{Kind: TargetSubEdition, ID: subEditionID}
	}
	if from := requestutil.Param(request, "from"); from != "" {
		filter.From, _ = time.ParseInLocation(validate.DateLayout, from, time.UTC)
	}
	if to := requestutil.Param(request, "to"); to != "" {
		filter.To, _ = time.ParseInLocation(validate.DateLayout, to, time.UTC)
	}

	params := pagination.FromRequest(request)
	issues, total, err := handler.service.ListIssues(request.Context(), tenantID, filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, issues, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) checkExists(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.CheckExists(request.Context(), tenantID,
		requestutil.Param(request, "editionId"),
		requestutil.Param(request, "subEditionId"),
		requestutil.Param(request, "issueDate"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) getByAddress(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.GetIssue(request.Context(), tenantID,
		requestutil.Param(request, "editionId"),
		requestutil.Param(request, "subEditionId"),
		requestutil.Param(request, "issueDate"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) findIssue(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.FindIssue(request.Context(), tenantID, requestutil.ID(request, "issueID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) deleteIssue(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cleaned, err := handler.service.DeleteIssue(request.Context(), tenantID, requestutil.ID(request, "issueID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"deleted": true, "objectsCleaned": len(cleaned)})
}

func (handler *Handler) generateDerivatives(writer http.ResponseWriter, request *http.Request) {
	tenantID, err := requestutil.RequiredTenantID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pageNumber := convert.ToInt(requestutil.ID(request, "pageNumber"))
	if pageNumber < 1 {
		respond.Error(writer, request, apperr.ValidationError("pageNumber must be a positive integer"))
		return
	}

	page, err := handler.service.GeneratePageDerivatives(request.Context(), tenantID,
		requestutil.ID(request, "issueID"), pageNumber)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}
