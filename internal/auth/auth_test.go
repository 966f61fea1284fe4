package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/pkg/database"
)

func newTestHandler(t *testing.T) (*gin.Engine, *Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "auth.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	repo := NewRepo(db)
	created, err := repo.EnsureAdmin(context.Background(), "Admin@Example.com", "correct-horse")
	require.NoError(t, err)
	require.True(t, created)

	h := NewHandler(repo, TokenService{Secret: []byte("test"), Issuer: "test", Duration: time.Hour}, nil)
	r := gin.New()
	h.RegisterRoutes(r.Group("/auth"))
	return r, repo
}

func doJSON(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, password string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	_, repo := newTestHandler(t)
	created, err := repo.EnsureAdmin(context.Background(), "admin@example.com", "other")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = repo.EnsureAdmin(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLogin(t *testing.T) {
	r, _ := newTestHandler(t)

	w := doJSON(r, http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := login(t, r, "correct-horse")
	w = doJSON(r, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@example.com")
}

func TestLogout_RevokesToken(t *testing.T) {
	r, _ := newTestHandler(t)
	token := login(t, r, "correct-horse")

	w := doJSON(r, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	r, _ := newTestHandler(t)
	token := login(t, r, "correct-horse")

	w := doJSON(r, http.MethodPost, "/auth/change-password", token, map[string]string{
		"old_password": "correct-horse", "new_password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/change-password", token, map[string]string{
		"old_password": "correct-horse", "new_password": "battery-staple",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// old token is revoked, new password works
	w = doJSON(r, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	login(t, r, "battery-staple")
}

func TestMiddleware_QueryToken(t *testing.T) {
	r, repo := newTestHandler(t)
	token := login(t, r, "correct-horse")

	r.GET("/ws", AuthMiddleware(TokenService{Secret: []byte("test"), Issuer: "test", Duration: time.Hour}, repo), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := doJSON(r, http.MethodGet, "/ws?token="+token, "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodGet, "/ws", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenService_RejectsOtherIssuer(t *testing.T) {
	a := TokenService{Secret: []byte("s"), Issuer: "a", Duration: time.Hour}
	b := TokenService{Secret: []byte("s"), Issuer: "b", Duration: time.Hour}

	tok, _, err := a.Sign(&User{ID: "u1"})
	require.NoError(t, err)

	_, err = b.Parse(tok)
	assert.Error(t, err)

	claims, err := a.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}
