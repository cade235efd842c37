// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

/*
Package catalog manages the publication hierarchy an issue is filed under.

An Edition is the state-level publication (e.g. "Rajasthan"); a SubEdition is
a district-level variant beneath one Edition (e.g. "Jaipur City"). Every
ingested issue targets exactly one of the two — the ingestion orchestrator
resolves its target through this package before any byte is written.
*/
package catalog

import "time"

// # Domain Entities

// Edition is a state-level publication belonging to one tenant.
type Edition struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenant_id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	StateCode string     `json:"state_code,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// SubEdition is a district-level publication beneath one Edition.
type SubEdition struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenant_id"`
	EditionID string     `json:"edition_id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	District  string     `json:"district,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
