package works

import (
	"context"
	"strings"

	"portfolio/internal/relations"
	"portfolio/pkg/models"
	"portfolio/pkg/utils"
)

// Service assembles public work pages.
type Service struct {
	Repo       *Repo
	Normalizer relations.Normalizer
}

func NewService(repo *Repo, norm relations.Normalizer) *Service {
	return &Service{Repo: repo, Normalizer: norm}
}

type Contributor struct {
	Slug    string              `json:"slug"`
	Name    string              `json:"name"`
	Role    string              `json:"role,omitempty"`
	Socials []models.SocialLink `json:"socials"`
}

type Breadcrumb struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type LabelRef struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	WebsiteURL string `json:"website_url,omitempty"`
}

// Detail is the payload of a public work page.
type Detail struct {
	relations.SimpleWork
	Description  string                 `json:"description,omitempty"`
	Year         *int                   `json:"year,omitempty"`
	Label        *LabelRef              `json:"label,omitempty"`
	Links        []models.SocialLink    `json:"links"`
	Contributors []Contributor          `json:"contributors"`
	Related      []relations.SimpleWork `json:"related"`
	Prev         *relations.SimpleWork  `json:"prev,omitempty"`
	Next         *relations.SimpleWork  `json:"next,omitempty"`
	Breadcrumbs  []Breadcrumb           `json:"breadcrumbs"`
}

// Detail builds the page for a published work, or returns nil when slug is
// unknown or unpublished. The relation index is rebuilt from the published
// catalog on every call.
func (s *Service) Detail(ctx context.Context, locale, slug string) (*Detail, error) {
	all, err := s.Repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	pos := -1
	for i, w := range all {
		if w.Slug == slug {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, nil
	}

	cards := s.Normalizer.ToSimpleWorks(all, locale)
	idx := relations.Build(cards)
	w := all[pos]

	d := &Detail{
		SimpleWork:   cards[pos],
		Year:         w.Year,
		Links:        links(w),
		Contributors: contributors(w.Contributions),
		Related:      idx.Related(slug),
		Breadcrumbs:  breadcrumbs(locale, cards[pos]),
	}
	if d.Related == nil {
		d.Related = []relations.SimpleWork{}
	}
	if t, ok := w.Translation(locale); ok {
		d.Description = strings.TrimSpace(t.Description)
	}
	if w.Label != nil {
		d.Label = &LabelRef{Slug: w.Label.Slug, Name: w.Label.Name, WebsiteURL: w.Label.WebsiteURL}
	}
	if pos > 0 {
		prev := cards[pos-1]
		d.Prev = &prev
	}
	if pos < len(cards)-1 {
		next := cards[pos+1]
		d.Next = &next
	}
	return d, nil
}

// Cards lists one page of normalized works.
func (s *Service) Cards(ctx context.Context, locale string, q ListQuery) ([]relations.SimpleWork, int, error) {
	ws, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return s.Normalizer.ToSimpleWorks(ws, locale), total, nil
}

// Relations returns the full relation index of the published catalog.
func (s *Service) Relations(ctx context.Context, locale string) (relations.RelationIndex, error) {
	all, err := s.Repo.ListPublished(ctx)
	if err != nil {
		return relations.RelationIndex{}, err
	}
	return relations.Build(s.Normalizer.ToSimpleWorks(all, locale)), nil
}

func links(w models.Work) []models.SocialLink {
	out := make([]models.SocialLink, 0, 3)
	for _, l := range []models.SocialLink{
		{Kind: "website", URL: w.ExternalURL},
		{Kind: "youtube", URL: w.YoutubeURL},
		{Kind: "spotify", URL: w.SpotifyURL},
	} {
		if l.URL != "" {
			out = append(out, l)
		}
	}
	return out
}

func contributors(cs []models.Contribution) []Contributor {
	out := make([]Contributor, 0, len(cs))
	for _, c := range cs {
		if c.Artist == nil {
			continue
		}
		out = append(out, Contributor{
			Slug:    c.Artist.Slug,
			Name:    c.Artist.Name,
			Role:    c.Role,
			Socials: c.Artist.SocialLinks(),
		})
	}
	return out
}

var crumbLabels = map[string][2]string{
	utils.LocaleFR: {"Accueil", "Réalisations"},
	utils.LocaleEN: {"Home", "Works"},
}

func breadcrumbs(locale string, w relations.SimpleWork) []Breadcrumb {
	labels, ok := crumbLabels[locale]
	if !ok {
		labels = crumbLabels[utils.DefaultLocale]
	}
	root := "/" + locale
	out := []Breadcrumb{
		{Label: labels[0], Path: root},
		{Label: labels[1], Path: root + "/works"},
	}
	if w.CategorySlug != "" {
		out = append(out, Breadcrumb{Label: w.Category, Path: root + "/works?category=" + w.CategorySlug})
	}
	return append(out, Breadcrumb{Label: w.Title, Path: root + "/works/" + w.Slug})
}
