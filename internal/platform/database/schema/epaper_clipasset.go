package schema

// EpaperClipAssetTable represents the 'epaper.clip_asset' table
type EpaperClipAssetTable struct {
	Table     string
	ID        string
	ClipID    string
	Kind      string
	ImageURL  string
	CreatedAt string
}

// EpaperClipAsset is the schema definition for epaper.clip_asset
var EpaperClipAsset = EpaperClipAssetTable{
	Table:     "epaper.clip_asset",
	ID:        "id",
	ClipID:    "clipid",
	Kind:      "kind",
	ImageURL:  "imageurl",
	CreatedAt: "createdat",
}

func (t EpaperClipAssetTable) Columns() []string {
	return []string{t.ID, t.ClipID, t.Kind, t.ImageURL, t.CreatedAt}
}
