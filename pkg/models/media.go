package models

// MediaAsset is a stored image reference. Path is relative to the site
// root or to the public storage directory (e.g. "public/images/x.jpg").
type MediaAsset struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Alt  string `json:"alt,omitempty"`
}
