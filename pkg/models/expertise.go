package models

type Expertise struct {
	ID           string                 `json:"id"`
	Slug         string                 `json:"slug"`
	Image        *MediaAsset            `json:"image,omitempty"`
	SortOrder    int                    `json:"sort_order"`
	Translations []ExpertiseTranslation `json:"translations"`
}

type ExpertiseTranslation struct {
	Locale      string `json:"locale"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
}

func (e Expertise) Translation(locale string) (ExpertiseTranslation, bool) {
	for _, t := range e.Translations {
		if t.Locale == locale {
			return t, true
		}
	}
	return ExpertiseTranslation{}, false
}
