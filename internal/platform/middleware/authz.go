// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/patrikahq/patrika/internal/platform/apperr"
	"github.com/patrikahq/patrika/internal/platform/ctxkey"
	"github.com/patrikahq/patrika/internal/platform/respond"
	"github.com/patrikahq/patrika/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify admin-context tokens.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `sec`
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AdminContext, error)
}

// ResolveAdminContext extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Inject [*sec.AdminContext] into the request context for downstream use.
//
// The verified claims are trusted as-is; tenant and role come from the token
// issued by the newsroom identity service, and nothing re-resolves them here.
func ResolveAdminContext(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			tokenStr := parts[1]
			admin, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := context.WithValue(request.Context(), ctxkey.KeyAdmin, admin)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [ResolveAdminContext].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		admin := GetAdmin(request.Context())
		if admin == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the caller doesn't hold the required role.
//
// # Usage
//
// Must be registered in the router AFTER [ResolveAdminContext]. It automatically
// implies [RequireAuth] so you don't need to mount both.
func RequireRole(role sec.AdminRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			admin := GetAdmin(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if admin == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !sec.AdminRole(admin.Role).AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetAdmin retrieves the [*sec.AdminContext] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AdminContext] if the caller is authenticated.
//   - nil if the caller is anonymous.
func GetAdmin(ctx context.Context) *sec.AdminContext {
	admin, ok := ctx.Value(ctxkey.KeyAdmin).(*sec.AdminContext)
	if !ok {
		return nil
	}
	return admin
}
