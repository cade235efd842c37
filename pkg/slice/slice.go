// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

/*
Package slice provides generic transformation helpers on top of the standard
[slices] package.
*/
package slice

// Map transforms a slice of T into an index-aligned slice of U.
//
// A nil input yields a nil output, so callers can chain Map over optional
// collections without guarding.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}
