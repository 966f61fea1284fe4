package models

type Label struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	WebsiteURL string `json:"website_url,omitempty"`
}
