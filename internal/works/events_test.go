package works

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/events"
	"portfolio/internal/testutil"
	"portfolio/pkg/models"
)

func TestAdminMutationsBroadcast(t *testing.T) {
	svc := newService(t)
	hub := events.NewHub(nil)

	r := testutil.NewRouter()
	admin := r.Group("/admin")
	admin.GET("/events", events.WSHandler(hub))
	NewHandler(svc, hub, nil).RegisterAdminRoutes(admin)

	srv := httptest.NewServer(r)
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/admin/events", nil)
	require.NoError(t, err)
	defer ws.Close()

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, welcome, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(welcome), "welcome")
	require.Eventually(t, func() bool { return hub.Stats().WSClients == 1 }, time.Second, 10*time.Millisecond)

	next := func() events.ContentEvent {
		t.Helper()
		_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := ws.ReadMessage()
		require.NoError(t, err)
		var ev events.ContentEvent
		require.NoError(t, json.Unmarshal(payload, &ev), string(payload))
		return ev
	}

	w := testutil.Do(r, http.MethodPost, "/admin/works", map[string]any{
		"translations": []map[string]string{{"locale": "fr", "title": "Nouveau"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Work
	testutil.Decode(t, w, &created)

	ev := next()
	assert.Equal(t, events.TypeCreated, ev.Type)
	assert.Equal(t, "work", ev.Entity)
	assert.Equal(t, created.ID, ev.ID)
	assert.Equal(t, "nouveau", ev.Slug)
	assert.False(t, ev.At.IsZero())

	w = testutil.Do(r, http.MethodPut, "/admin/works/"+created.ID, map[string]any{
		"slug":         "renomme",
		"translations": []map[string]string{{"locale": "fr", "title": "Renommé"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	ev = next()
	assert.Equal(t, events.TypeUpdated, ev.Type)
	assert.Equal(t, created.ID, ev.ID)
	assert.Equal(t, "renomme", ev.Slug)

	// failed writes are not announced
	w = testutil.Do(r, http.MethodPut, "/admin/works/missing", map[string]any{
		"translations": []map[string]string{{"locale": "fr", "title": "X"}},
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.Do(r, http.MethodDelete, "/admin/works/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	ev = next()
	assert.Equal(t, events.TypeDeleted, ev.Type)
	assert.Equal(t, "work", ev.Entity)
	assert.Equal(t, created.ID, ev.ID)
	assert.Empty(t, ev.Slug)
}
