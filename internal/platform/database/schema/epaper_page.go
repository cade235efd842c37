package schema

// EpaperPageTable represents the 'epaper.page' table
type EpaperPageTable struct {
	Table       string
	ID          string
	IssueID     string
	PageNumber  string
	ImageURL    string
	DeliveryURL string
	PreviewURL  string
}

// EpaperPage is the schema definition for epaper.page
var EpaperPage = EpaperPageTable{
	Table:       "epaper.page",
	ID:          "id",
	IssueID:     "issueid",
	PageNumber:  "pagenumber",
	ImageURL:    "imageurl",
	DeliveryURL: "deliveryurl",
	PreviewURL:  "previewurl",
}

func (t EpaperPageTable) Columns() []string {
	return []string{t.ID, t.IssueID, t.PageNumber, t.ImageURL, t.DeliveryURL, t.PreviewURL}
}
