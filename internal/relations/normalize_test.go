package relations

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"portfolio/pkg/models"
)

func TestResolveImageURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"storage prefix", "public/images/x.jpg", "/images/x.jpg"},
		{"already rooted", "/already/rooted.jpg", "/already/rooted.jpg"},
		{"bare path", "bare/path.jpg", "/bare/path.jpg"},
		{"empty", "", DefaultPlaceholderImage},
		{"blank", "   ", DefaultPlaceholderImage},
		{"absolute url", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveImageURL(tt.in))
		})
	}
}

func TestResolveImageURL_CustomPlaceholder(t *testing.T) {
	n := NewNormalizer("/img/none.png")
	assert.Equal(t, "/img/none.png", n.ResolveImageURL(""))
	assert.Equal(t, "/images/x.jpg", n.ResolveImageURL("public/images/x.jpg"))
}

func TestToSimpleWork_FullRecord(t *testing.T) {
	w := models.Work{
		Slug: "song-a",
		Translations: []models.WorkTranslation{
			{Locale: "fr", Title: "Chanson A"},
			{Locale: "en", Title: "Song A"},
		},
		Category: &models.Category{
			Slug: "album",
			Translations: []models.CategoryTranslation{
				{Locale: "fr", Name: "Album"},
				{Locale: "en", Name: "Album"},
			},
		},
		CoverImage: &models.MediaAsset{Path: "public/images/song-a.jpg", Alt: "Pochette"},
		Contributions: []models.Contribution{
			{Artist: &models.Artist{Slug: "zed"}},
			{Artist: &models.Artist{Slug: "art1"}, Role: "composer"},
			{Artist: &models.Artist{Slug: "art1"}, Role: "producer"},
		},
	}

	got := Normalizer{}.ToSimpleWork(w, "en")
	want := SimpleWork{
		Slug:             "song-a",
		Title:            "Song A",
		CoverImage:       "/images/song-a.jpg",
		CoverImageAlt:    "Pochette",
		Category:         "Album",
		CategorySlug:     "album",
		ContributorSlugs: []string{"art1", "zed"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToSimpleWork mismatch (-want +got):\n%s", diff)
	}
}

func TestToSimpleWork_Fallbacks(t *testing.T) {
	t.Run("no translation, no image, no category", func(t *testing.T) {
		got := Normalizer{}.ToSimpleWork(models.Work{Slug: "lonely"}, "fr")
		assert.Equal(t, "lonely", got.Title)
		assert.Equal(t, "lonely", got.CoverImageAlt)
		assert.Equal(t, DefaultPlaceholderImage, got.CoverImage)
		assert.Equal(t, "", got.Category)
		assert.Equal(t, "", got.CategorySlug)
		assert.NotNil(t, got.ContributorSlugs)
		assert.Empty(t, got.ContributorSlugs)
	})

	t.Run("alt falls back to translated title", func(t *testing.T) {
		w := models.Work{
			Slug:         "doc",
			Translations: []models.WorkTranslation{{Locale: "fr", Title: "Le documentaire"}},
			CoverImage:   &models.MediaAsset{Path: "/covers/doc.jpg"},
		}
		got := Normalizer{}.ToSimpleWork(w, "fr")
		assert.Equal(t, "Le documentaire", got.CoverImageAlt)
		assert.Equal(t, "/covers/doc.jpg", got.CoverImage)
	})

	t.Run("other locale title is not used", func(t *testing.T) {
		w := models.Work{
			Slug:         "only-fr",
			Translations: []models.WorkTranslation{{Locale: "fr", Title: "Seulement"}},
		}
		assert.Equal(t, "only-fr", Normalizer{}.ToSimpleWork(w, "en").Title)
	})

	t.Run("untranslated category uses its slug", func(t *testing.T) {
		w := models.Work{Slug: "x", Category: &models.Category{Slug: "music-video"}}
		got := Normalizer{}.ToSimpleWork(w, "en")
		assert.Equal(t, "music-video", got.Category)
		assert.Equal(t, "music-video", got.CategorySlug)
	})

	t.Run("contributions without artist are skipped", func(t *testing.T) {
		w := models.Work{
			Slug: "x",
			Contributions: []models.Contribution{
				{ArtistID: "a1"},
				{Artist: &models.Artist{Slug: " "}},
				{Artist: &models.Artist{Slug: "b"}},
			},
		}
		assert.Equal(t, []string{"b"}, Normalizer{}.ToSimpleWork(w, "en").ContributorSlugs)
	})
}

func TestToSimpleWorks_KeepsOrder(t *testing.T) {
	ws := []models.Work{{Slug: "c"}, {Slug: "a"}, {Slug: "b"}}
	got := Normalizer{}.ToSimpleWorks(ws, "fr")
	slugs := make([]string, 0, len(got))
	for _, w := range got {
		slugs = append(slugs, w.Slug)
	}
	assert.Equal(t, []string{"c", "a", "b"}, slugs)
}
