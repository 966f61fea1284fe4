package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(zap.NewNop()), RequestLogger(zap.NewNop()))
	return r
}

func TestLocaleMiddleware(t *testing.T) {
	r := newRouter()
	r.GET("/:locale/ping", LocaleMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, Locale(c))
	})

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/fr/ping", http.StatusOK, "fr"},
		{"/EN/ping", http.StatusOK, "en"},
		{"/de/ping", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	r := newRouter()
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestPage(t *testing.T) {
	tests := []struct {
		query              string
		wantLimit, wantOff int
	}{
		{"", 20, 0},
		{"limit=5&offset=10", 5, 10},
		{"limit=1000&offset=-3", 20, 0},
		{"limit=abc", 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			limit, offset := Page(c, 20)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOff, offset)
		})
	}
}
