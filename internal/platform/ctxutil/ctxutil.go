// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/patrikahq/patrika/internal/platform/ctxkey"
	"github.com/patrikahq/patrika/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithAdmin returns a new context with the provided admin context attached.
func WithAdmin(ctx context.Context, admin *sec.AdminContext) context.Context {
	return context.WithValue(ctx, ctxkey.KeyAdmin, admin)
}

// GetAdmin retrieves the [*sec.AdminContext] from the [context.Context].
func GetAdmin(ctx context.Context) *sec.AdminContext {
	admin, ok := ctx.Value(ctxkey.KeyAdmin).(*sec.AdminContext)
	if !ok {
		return nil
	}
	return admin
}
