package schema

// CatalogEditionTable represents the 'catalog.edition' table
type CatalogEditionTable struct {
	Table     string
	ID        string
	TenantID  string
	Name      string
	Slug      string
	StateCode string
	CreatedAt string
	UpdatedAt string
	DeletedAt string
}

// CatalogEdition is the schema definition for catalog.edition
var CatalogEdition = CatalogEditionTable{
	Table:     "catalog.edition",
	ID:        "id",
	TenantID:  "tenantid",
	Name:      "name",
	Slug:      "slug",
	StateCode: "statecode",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
	DeletedAt: "deletedat",
}

func (t CatalogEditionTable) Columns() []string {
	return []string{t.ID, t.TenantID, t.Name, t.Slug, t.StateCode, t.CreatedAt, t.UpdatedAt, t.DeletedAt}
}
