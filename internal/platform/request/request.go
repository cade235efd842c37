// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/patrikahq/patrika/internal/platform/apperr"
	"github.com/patrikahq/patrika/internal/platform/ctxutil"
	"github.com/patrikahq/patrika/internal/platform/sec"
	"github.com/patrikahq/patrika/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (UUID/Slug) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Admin extracts the resolved admin context from the request.

Returns nil if the request carries no verified admin token.
*/
func Admin(request *http.Request) *sec.AdminContext {
	return ctxutil.GetAdmin(request.Context())
}

/*
RequiredAdmin ensures the request carries an admin context and returns it.

Returns:
  - *sec.AdminContext: The resolved tenant/user/role triple
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredAdmin(request *http.Request) (*sec.AdminContext, error) {

	// Get the resolved admin context
	admin := ctxutil.GetAdmin(request.Context())

	// If the request is anonymous, return an error
	if admin == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return admin, nil
}

/*
RequiredTenantID returns the tenant the caller operates on.

Returns:
  - string: Tenant UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredTenantID(request *http.Request) (string, error) {

	// Get the resolved admin context
	admin, err := RequiredAdmin(request)

	// If the request is anonymous, return an error
	if err != nil {
		return "", err
	}

	return admin.TenantID, nil
}
