package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"abc"}`))
	})
	mux.HandleFunc("/en/works", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "clip", r.URL.Query().Get("category"))
		_, _ = w.Write([]byte(`{"total":1,"items":[{"slug":"clip-a","title":"Clip A","category":"Clip","contributor_slugs":["art1"]}]}`))
	})
	mux.HandleFunc("/fr/works/song-a", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"slug":"song-a","title":"Chanson A","related":[{"slug":"clip-a","title":"Clip A"}]}`))
	})
	mux.HandleFunc("/fr/works/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&out)
	tokenPath := filepath.Join(t.TempDir(), "token.json")
	cmd.SetArgs(append([]string{"--api", srv.URL, "--token", tokenPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestWorksList(t *testing.T) {
	srv := fakeAPI(t)

	out, err := run(t, srv, "--locale", "EN", "works", "list", "--category", "clip")
	require.NoError(t, err)
	assert.Contains(t, out, "clip-a")
	assert.Contains(t, out, "1 of 1")
}

func TestWorksRelated(t *testing.T) {
	srv := fakeAPI(t)

	out, err := run(t, srv, "works", "related", "song-a")
	require.NoError(t, err)
	assert.Contains(t, out, "Clip A")

	_, err = run(t, srv, "works", "show", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found (status 404)")
}

func TestUnsupportedLocale(t *testing.T) {
	srv := fakeAPI(t)

	_, err := run(t, srv, "--locale", "de", "works", "list")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")

	require.NoError(t, saveToken(path, "abc"))
	got, err := readToken(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	require.NoError(t, clearToken(path))
	require.NoError(t, clearToken(path), "clearing twice is fine")
	assert.Error(t, saveToken(path, ""))
}

func TestLogin_SavesToken(t *testing.T) {
	srv := fakeAPI(t)
	var out bytes.Buffer
	tokenPath := filepath.Join(t.TempDir(), "token.json")

	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--api", srv.URL, "--token", tokenPath, "login", "--email", "a@b.c", "--password", "pw"})
	require.NoError(t, cmd.Execute())

	token, err := readToken(tokenPath)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}
