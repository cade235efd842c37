package schema

// EpaperClipTable represents the 'epaper.clip' table
type EpaperClipTable struct {
	Table            string
	ID               string
	TenantID         string
	IssueID          string
	PageNumber       string
	X                string
	Y                string
	Width            string
	Height           string
	ColumnTag        string
	Title            string
	ArticleRef       string
	Source           string
	Confidence       string
	Status           string
	DeactivatedAt    string
	DeactivatedBy    string
	DeactivateReason string
	CreatedBy        string
	UpdatedBy        string
	CreatedAt        string
	UpdatedAt        string
}

// EpaperClip is the schema definition for epaper.clip
var EpaperClip = EpaperClipTable{
	Table:            "epaper.clip",
	ID:               "id",
	TenantID:         "tenantid",
	IssueID:          "issueid",
	PageNumber:       "pagenumber",
	X:                "x",
	Y:                "y",
	Width:            "width",
	Height:           "height",
	ColumnTag:        "columntag",
	Title:            "title",
	ArticleRef:       "articleref",
	Source:           "source",
	Confidence:       "confidence",
	Status:           "status",
	DeactivatedAt:    "deactivatedat",
	DeactivatedBy:    "deactivatedby",
	DeactivateReason: "deactivatereason",
	CreatedBy:        "createdby",
	UpdatedBy:        "updatedby",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
}

func (t EpaperClipTable) Columns() []string {
	return []string{
		t.ID, t.TenantID, t.IssueID, t.PageNumber,
		t.X, t.Y, t.Width, t.Height,
		t.ColumnTag, t.Title, t.ArticleRef, t.Source, t.Confidence,
		t.Status, t.DeactivatedAt, t.DeactivatedBy, t.DeactivateReason,
		t.CreatedBy, t.UpdatedBy, t.CreatedAt, t.UpdatedAt,
	}
}
