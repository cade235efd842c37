// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

/*
Package pointer removes the boilerplate around optional values.

PATCH payloads model "field absent" as a nil pointer; these helpers build
such pointers from literals and merge them back over stored values.
*/
package pointer

// To returns a pointer to v. Useful for literal values feeding pointer
// fields, e.g. pointer.To(0.25).
func To[T any](v T) *T {
	return &v
}

// Fallback dereferences p, returning fallback when p is nil.
//
// The canonical use is patch merging: Fallback(patch.Title, stored.Title)
// keeps the stored value unless the patch names a new one.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
