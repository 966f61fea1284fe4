package relations

import (
	"sort"
	"strings"

	"portfolio/pkg/models"
)

// DefaultPlaceholderImage is served for works without a cover image.
const DefaultPlaceholderImage = "/images/placeholder.jpg"

// storagePrefix is the on-disk directory served at the site root.
const storagePrefix = "public/"

// SimpleWork is the locale-resolved projection of a work used for relation
// building and "related works" cards. Every field is concrete.
type SimpleWork struct {
	Slug             string   `json:"slug"`
	Title            string   `json:"title"`
	CoverImage       string   `json:"cover_image"`
	CoverImageAlt    string   `json:"cover_image_alt"`
	Category         string   `json:"category"`
	CategorySlug     string   `json:"category_slug"`
	ContributorSlugs []string `json:"contributor_slugs"`
}

// Normalizer resolves works into SimpleWork values. The zero value uses
// DefaultPlaceholderImage.
type Normalizer struct {
	Placeholder string
}

func NewNormalizer(placeholder string) Normalizer {
	return Normalizer{Placeholder: strings.TrimSpace(placeholder)}
}

// ToSimpleWork never fails; missing translations, images and categories
// fall back to slugs and the placeholder.
func (n Normalizer) ToSimpleWork(w models.Work, locale string) SimpleWork {
	title := w.Slug
	if t, ok := w.Translation(locale); ok && strings.TrimSpace(t.Title) != "" {
		title = strings.TrimSpace(t.Title)
	}

	var (
		path string
		alt  = title
	)
	if w.CoverImage != nil {
		path = w.CoverImage.Path
		if a := strings.TrimSpace(w.CoverImage.Alt); a != "" {
			alt = a
		}
	}

	var category, categorySlug string
	if w.Category != nil {
		categorySlug = w.Category.Slug
		category = strings.TrimSpace(w.Category.Name(locale))
		if category == "" {
			category = categorySlug
		}
	}

	return SimpleWork{
		Slug:             w.Slug,
		Title:            title,
		CoverImage:       n.ResolveImageURL(path),
		CoverImageAlt:    alt,
		Category:         category,
		CategorySlug:     categorySlug,
		ContributorSlugs: contributorSlugs(w.Contributions),
	}
}

// ToSimpleWorks normalizes a list, keeping input order.
func (n Normalizer) ToSimpleWorks(ws []models.Work, locale string) []SimpleWork {
	out := make([]SimpleWork, 0, len(ws))
	for _, w := range ws {
		out = append(out, n.ToSimpleWork(w, locale))
	}
	return out
}

// ResolveImageURL maps a stored image path to a public root-relative URL.
//
//	"public/images/x.jpg" -> "/images/x.jpg"
//	"/already/rooted.jpg" -> unchanged
//	"bare/path.jpg"       -> "/bare/path.jpg"
//	""                    -> placeholder
//
// Absolute http(s) URLs are returned unchanged.
func (n Normalizer) ResolveImageURL(path string) string {
	p := strings.TrimSpace(path)
	switch {
	case p == "":
		if n.Placeholder != "" {
			return n.Placeholder
		}
		return DefaultPlaceholderImage
	case strings.HasPrefix(p, storagePrefix):
		return "/" + strings.TrimPrefix(p, storagePrefix)
	case strings.HasPrefix(p, "/"):
		return p
	case strings.HasPrefix(p, "http://"), strings.HasPrefix(p, "https://"):
		return p
	default:
		return "/" + p
	}
}

// ResolveImageURL uses the default placeholder.
func ResolveImageURL(path string) string {
	return Normalizer{}.ResolveImageURL(path)
}

func contributorSlugs(cs []models.Contribution) []string {
	seen := make(map[string]struct{}, len(cs))
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		if c.Artist == nil {
			continue
		}
		slug := strings.TrimSpace(c.Artist.Slug)
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}
