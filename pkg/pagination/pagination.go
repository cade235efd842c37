// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

// Package pagination parses page-based navigation from list requests and
// builds the metadata block the response envelope carries back.
//
// Issue archives span years of daily editions, so every list endpoint is
// paginated; handlers call [FromRequest] and repositories use the resulting
// [Params] for LIMIT/OFFSET.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the page size applied when the caller names none.
	DefaultLimit = 20
	// MaxLimit caps the page size a caller may request.
	MaxLimit = 100
	// DefaultPage is the first page (1-indexed).
	DefaultPage = 1
)

// Params is the parsed page/limit pair from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET for this page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block included in list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta derives TotalPages from the total row count and page size.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromRequest reads the "page" and "limit" query parameters.
//
// Missing, malformed, negative, or excessive values fall back to
// [DefaultPage], [DefaultLimit], or [MaxLimit]; a list endpoint never fails
// on bad pagination input.
func FromRequest(r *http.Request) Params {
	page := intParam(r, "page", DefaultPage)
	limit := intParam(r, "limit", DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: limit}
}

func intParam(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return n
}
