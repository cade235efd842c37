// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

/*
Package convert holds fault-tolerant string conversions for query-parameter
parsing.

A malformed value reads as the zero value rather than an error; optional
filters like ?page=3 or ?includeInactive=true should never fail a request.
When the distinction between "absent" and "zero" matters, parse explicitly
with [strconv] instead.
*/
package convert

import "strconv"

// ToInt parses s as an integer, returning 0 when empty or malformed.
func ToInt(s string) int {
	if s == "" {
		return 0
	}

	v, _ := strconv.Atoi(s)
	return v
}

// ToBool parses s as a boolean ("true", "1", "false", "0"), returning false
// when empty or malformed.
func ToBool(s string) bool {
	if s == "" {
		return false
	}

	v, _ := strconv.ParseBool(s)
	return v
}
