package model

// AssetUpload carries an uploaded file through catalog and order operations.
type AssetUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ProductInput carries the editable product fields. Image and Asset are
// optional on edit; absent uploads keep the stored files.
type ProductInput struct {
	Name           string
	Price          float64
	Category       string
	SubCategory    string
	Description    string
	BonusItems     []string
	WebsiteLink    string
	ExpirationDays int
	Image          *AssetUpload
	Asset          *AssetUpload
}

// Bundle is an assembled delivery archive ready to serve.
type Bundle struct {
	Name string
	Data []byte
}
