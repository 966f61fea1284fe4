package models

import "time"

// Work is a portfolio entry (song, album, clip, documentary...) as stored,
// with every locale's translation and its credited contributions.
type Work struct {
	ID            string            `json:"id"`
	Slug          string            `json:"slug"`
	Category      *Category         `json:"category,omitempty"`
	Label         *Label            `json:"label,omitempty"`
	CoverImage    *MediaAsset       `json:"cover_image,omitempty"`
	Year          *int              `json:"year,omitempty"`
	ExternalURL   string            `json:"external_url,omitempty"`
	YoutubeURL    string            `json:"youtube_url,omitempty"`
	SpotifyURL    string            `json:"spotify_url,omitempty"`
	SortOrder     int               `json:"sort_order"`
	Published     bool              `json:"published"`
	Translations  []WorkTranslation `json:"translations"`
	Contributions []Contribution    `json:"contributions"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type WorkTranslation struct {
	Locale      string `json:"locale"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Contribution credits an artist on a work.
type Contribution struct {
	ArtistID  string  `json:"artist_id"`
	Role      string  `json:"role,omitempty"`
	SortOrder int     `json:"sort_order"`
	Artist    *Artist `json:"artist,omitempty"`
}

func (w Work) Translation(locale string) (WorkTranslation, bool) {
	for _, t := range w.Translations {
		if t.Locale == locale {
			return t, true
		}
	}
	return WorkTranslation{}, false
}
