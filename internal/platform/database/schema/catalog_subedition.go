package schema

// CatalogSubEditionTable represents the 'catalog.sub_edition' table
type CatalogSubEditionTable struct {
	Table     string
	ID        string
	TenantID  string
	EditionID string
	Name      string
	Slug      string
	District  string
	CreatedAt string
	UpdatedAt string
	DeletedAt string
}

// CatalogSubEdition is the schema definition for catalog.sub_edition
var CatalogSubEdition = CatalogSubEditionTable{
	Table:     "catalog.sub_edition",
	ID:        "id",
	TenantID:  "tenantid",
	EditionID: "editionid",
	Name:      "name",
	Slug:      "slug",
	District:  "district",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
	DeletedAt: "deletedat",
}

func (t CatalogSubEditionTable) Columns() []string {
	return []string{t.ID, t.TenantID, t.EditionID, t.Name, t.Slug, t.District, t.CreatedAt, t.UpdatedAt, t.DeletedAt}
}
