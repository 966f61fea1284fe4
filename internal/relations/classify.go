package relations

import "strings"

var clipKeywords = []string{"clip", "music-video", "video"}

// IsClip reports whether a category denotes a music-video-like work. The
// match is case-insensitive on both the category slug and its display name.
func IsClip(categorySlug, categoryName string) bool {
	slug := strings.ToLower(strings.TrimSpace(categorySlug))
	name := strings.ToLower(strings.TrimSpace(categoryName))

	if slug == "clip" || slug == "music-video" {
		return true
	}
	for _, kw := range clipKeywords {
		if strings.Contains(slug, kw) || strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// IsClip classifies the work by its resolved category.
func (w SimpleWork) IsClip() bool {
	return IsClip(w.CategorySlug, w.Category)
}
