package models

type Category struct {
	ID           string                `json:"id"`
	Slug         string                `json:"slug"`
	SortOrder    int                   `json:"sort_order"`
	Translations []CategoryTranslation `json:"translations"`
}

type CategoryTranslation struct {
	Locale string `json:"locale"`
	Name   string `json:"name"`
}

// Name returns the category name for locale, or "" when untranslated.
func (c Category) Name(locale string) string {
	for _, t := range c.Translations {
		if t.Locale == locale {
			return t.Name
		}
	}
	return ""
}
