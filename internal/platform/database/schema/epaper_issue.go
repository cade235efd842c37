package schema

// EpaperIssueTable represents the 'epaper.issue' table
type EpaperIssueTable struct {
	Table         string
	ID            string
	TenantID      string
	EditionID     string
	SubEditionID  string
	IssueDate     string
	PDFURL        string
	CoverImageURL string
	PageCount     string
	Truncated     string
	UploadedBy    string
	CreatedAt     string
	UpdatedAt     string
}

// EpaperIssue is the schema definition for epaper.issue
var EpaperIssue = EpaperIssueTable{
	Table:         "epaper.issue",
	ID:            "id",
	TenantID:      "tenantid",
	EditionID:     "editionid",
	SubEditionID:  "subeditionid",
	IssueDate:     "issuedate",
	PDFURL:        "pdfurl",
	CoverImageURL: "coverimageurl",
	PageCount:     "pagecount",
	Truncated:     "truncated",
	UploadedBy:    "uploadedby",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

func (t EpaperIssueTable) Columns() []string {
	return []string{
		t.ID, t.TenantID, t.EditionID, t.SubEditionID, t.IssueDate,
		t.PDFURL, t.CoverImageURL, t.PageCount, t.Truncated, t.UploadedBy,
		t.CreatedAt, t.UpdatedAt,
	}
}
