// Package testutil holds fixtures shared by repository and handler tests.
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"portfolio/pkg/database"
)

// OpenDB returns a migrated SQLite database in a per-test directory.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMigrated(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Exec runs fixture statements, failing the test on error.
func Exec(t *testing.T, db *sql.DB, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		_, err := db.ExecContext(context.Background(), s)
		require.NoError(t, err, s)
	}
}

func NewRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// Do sends a JSON request through h and returns the recorder.
func Do(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// Decode unmarshals a recorder body into v.
func Decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// Fixture is a small bilingual catalog used across packages:
// an album and a clip sharing artist "art1", a music video by "art2".
var Fixture = []string{
	`INSERT INTO categories (id, slug, sort_order) VALUES ('cat-album', 'album', 1), ('cat-clip', 'clip', 2), ('cat-mv', 'mv', 3)`,
	`INSERT INTO category_translations (category_id, locale, name) VALUES
		('cat-album', 'fr', 'Album'), ('cat-album', 'en', 'Album'),
		('cat-clip', 'fr', 'Clip'), ('cat-clip', 'en', 'Clip'),
		('cat-mv', 'en', 'Music Video')`,
	`INSERT INTO labels (id, slug, name, website_url) VALUES ('lab-1', 'big-label', 'Big Label', 'https://label.example')`,
	`INSERT INTO artists (id, slug, name, spotify_url) VALUES ('a1', 'art1', 'Artist One', 'https://open.spotify.com/artist/1'), ('a2', 'art2', 'Artist Two', NULL)`,
	`INSERT INTO artist_translations (artist_id, locale, bio) VALUES ('a1', 'fr', 'Compositrice'), ('a1', 'en', 'Composer')`,
	`INSERT INTO media_assets (id, path, alt) VALUES ('m1', 'public/images/song-a.jpg', 'Pochette')`,
	`INSERT INTO works (id, slug, category_id, label_id, cover_image_id, year, sort_order) VALUES
		('w1', 'song-a', 'cat-album', 'lab-1', 'm1', 2021, 1),
		('w2', 'clip-a', 'cat-clip', NULL, NULL, 2022, 2),
		('w3', 'clip-b', 'cat-mv', NULL, NULL, NULL, 3)`,
	`INSERT INTO works (id, slug, category_id, published, sort_order) VALUES ('w4', 'draft', 'cat-album', 0, 4)`,
	`INSERT INTO work_translations (work_id, locale, title, description) VALUES
		('w1', 'fr', 'Chanson A', 'Un album'), ('w1', 'en', 'Song A', 'An album'),
		('w2', 'fr', 'Clip A', NULL), ('w2', 'en', 'Clip A', NULL),
		('w3', 'en', 'Clip B', NULL),
		('w4', 'fr', 'Brouillon', NULL)`,
	`INSERT INTO contributions (work_id, artist_id, role, sort_order) VALUES
		('w1', 'a1', 'composer', 0), ('w1', 'a1', 'producer', 1),
		('w2', 'a1', 'director', 0),
		('w3', 'a2', '', 0),
		('w4', 'a1', '', 0)`,
}
