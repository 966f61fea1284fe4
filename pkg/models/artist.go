package models

import "time"

type Artist struct {
	ID           string              `json:"id"`
	Slug         string              `json:"slug"`
	Name         string              `json:"name"`
	Image        *MediaAsset         `json:"image,omitempty"`
	WebsiteURL   string              `json:"website_url,omitempty"`
	SpotifyURL   string              `json:"spotify_url,omitempty"`
	InstagramURL string              `json:"instagram_url,omitempty"`
	YoutubeURL   string              `json:"youtube_url,omitempty"`
	Translations []ArtistTranslation `json:"translations"`
	CreatedAt    time.Time           `json:"created_at"`
}

type ArtistTranslation struct {
	Locale string `json:"locale"`
	Bio    string `json:"bio,omitempty"`
}

type SocialLink struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

// Bio returns the biography for locale, or "" when untranslated.
func (a Artist) Bio(locale string) string {
	for _, t := range a.Translations {
		if t.Locale == locale {
			return t.Bio
		}
	}
	return ""
}

// SocialLinks lists the non-empty external links in a fixed display order.
func (a Artist) SocialLinks() []SocialLink {
	candidates := []SocialLink{
		{Kind: "website", URL: a.WebsiteURL},
		{Kind: "spotify", URL: a.SpotifyURL},
		{Kind: "instagram", URL: a.InstagramURL},
		{Kind: "youtube", URL: a.YoutubeURL},
	}
	out := make([]SocialLink, 0, len(candidates))
	for _, l := range candidates {
		if l.URL != "" {
			out = append(out, l)
		}
	}
	return out
}
