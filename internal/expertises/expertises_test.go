package expertises

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/httpx"
	"portfolio/internal/relations"
	"portfolio/internal/testutil"
	"portfolio/pkg/models"
)

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.OpenDB(t)
	testutil.Exec(t, db,
		`INSERT INTO media_assets (id, path, alt) VALUES ('m-sync', 'images/sync.png', '')`,
		`INSERT INTO expertises (id, slug, image_id, sort_order) VALUES ('e1', 'synchronisation', 'm-sync', 2), ('e2', 'edition', NULL, 1)`,
		`INSERT INTO expertise_translations (expertise_id, locale, title, description, content) VALUES
			('e1', 'fr', 'Synchronisation', 'Placement musical', '## Films'),
			('e1', 'en', 'Sync licensing', NULL, NULL),
			('e2', 'fr', 'Édition', NULL, NULL)`,
	)

	h := NewHandler(NewRepo(db), relations.NewNormalizer("/img/none.png"), nil, nil)
	r := testutil.NewRouter()
	h.RegisterPublicRoutes(r.Group("/:locale", httpx.LocaleMiddleware()))
	h.RegisterAdminRoutes(r.Group("/admin"))
	return r
}

func TestPublicList(t *testing.T) {
	r := setup(t)

	w := testutil.Do(r, http.MethodGet, "/en/expertises", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []page `json:"items"`
	}
	testutil.Decode(t, w, &resp)
	assert.Equal(t, []page{
		{Slug: "edition", Title: "edition", Image: "/img/none.png", ImageAlt: "edition"},
		{Slug: "synchronisation", Title: "Sync licensing", Image: "/images/sync.png", ImageAlt: "Sync licensing"},
	}, resp.Items)
}

func TestDetail(t *testing.T) {
	r := setup(t)

	w := testutil.Do(r, http.MethodGet, "/fr/expertises/synchronisation", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got page
	testutil.Decode(t, w, &got)
	assert.Equal(t, "## Films", got.Content)
	assert.Equal(t, "Placement musical", got.Description)

	w = testutil.Do(r, http.MethodGet, "/fr/expertises/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminLifecycle(t *testing.T) {
	r := setup(t)

	w := testutil.Do(r, http.MethodPost, "/admin/expertises", map[string]any{
		"image_path":   "public/images/gestion.jpg",
		"translations": []map[string]string{{"locale": "fr", "title": "Gestion de droits", "content": "Texte"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Expertise
	testutil.Decode(t, w, &created)
	assert.Equal(t, "gestion-de-droits", created.Slug)
	require.NotNil(t, created.Image)

	w = testutil.Do(r, http.MethodPut, "/admin/expertises/"+created.ID, map[string]any{
		"slug":         "edition",
		"translations": []map[string]string{{"locale": "fr", "title": "X"}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = testutil.Do(r, http.MethodPost, "/admin/expertises", map[string]any{
		"translations": []map[string]string{{"locale": "fr", "title": " "}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.Do(r, http.MethodDelete, "/admin/expertises/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.Do(r, http.MethodGet, "/admin/expertises", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "gestion-de-droits")
}
