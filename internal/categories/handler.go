package categories

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio/internal/events"
	"portfolio/internal/httpx"
	"portfolio/pkg/database"
	"portfolio/pkg/models"
	"portfolio/pkg/utils"
)

type Handler struct {
	Repo   *Repo
	Events *events.Hub
	Log    *zap.Logger
}

func NewHandler(repo *Repo, hub *events.Hub, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Repo: repo, Events: hub, Log: log}
}

// RegisterPublicRoutes expects a group carrying httpx.LocaleMiddleware.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.listPublic)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.listAdmin)
	rg.POST("/categories", h.create)
	rg.PUT("/categories/:id", h.update)
	rg.DELETE("/categories/:id", h.remove)
}

type publicCategory struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	WorkCount int    `json:"work_count"`
}

func (h *Handler) listPublic(c *gin.Context) {
	locale := httpx.Locale(c)

	cats, err := h.Repo.List(c.Request.Context())
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "list failed", err)
		return
	}
	counts, err := h.Repo.WorkCounts(c.Request.Context())
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "count failed", err)
		return
	}

	out := make([]publicCategory, 0, len(cats))
	for _, cat := range cats {
		name := cat.Name(locale)
		if name == "" {
			name = cat.Slug
		}
		out = append(out, publicCategory{ID: cat.ID, Slug: cat.Slug, Name: name, WorkCount: counts[cat.ID]})
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *Handler) listAdmin(c *gin.Context) {
	cats, err := h.Repo.List(c.Request.Context())
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "list failed", err)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"items": cats})
}

type upsertReq struct {
	Slug         string                       `json:"slug"`
	SortOrder    int                          `json:"sort_order"`
	Translations []models.CategoryTranslation `json:"translations" binding:"required,min=1"`
}

func (req upsertReq) toInput() (Input, error) {
	locales := make([]string, 0, len(req.Translations))
	trs := make([]models.CategoryTranslation, 0, len(req.Translations))
	for _, t := range req.Translations {
		t.Locale = strings.ToLower(strings.TrimSpace(t.Locale))
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return Input{}, errors.New("translation name required")
		}
		locales = append(locales, t.Locale)
		trs = append(trs, t)
	}
	if err := utils.ValidateLocales(locales); err != nil {
		return Input{}, err
	}

	slug, err := utils.ResolveSlug(req.Slug, trs[0].Name)
	if err != nil {
		return Input{}, err
	}
	return Input{Slug: slug, SortOrder: req.SortOrder, Translations: trs}, nil
}

func (h *Handler) bind(c *gin.Context) (Input, bool) {
	var req upsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return Input{}, false
	}
	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return Input{}, false
	}
	return in, true
}

func (h *Handler) create(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}

	cat, err := h.Repo.Create(c.Request.Context(), in)
	if err != nil {
		h.writeErr(c, "create failed", err)
		return
	}
	h.Events.Publish(events.TypeCreated, "category", cat.ID, cat.Slug)
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) update(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}

	cat, err := h.Repo.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeErr(c, "update failed", err)
		return
	}
	h.Events.Publish(events.TypeUpdated, "category", cat.ID, cat.Slug)
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) remove(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "category is used by works"})
			return
		}
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "delete failed", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.Events.Publish(events.TypeDeleted, "category", id, "")
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) writeErr(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, database.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "slug already exists"})
	default:
		httpx.Fail(c, h.Log, http.StatusInternalServerError, msg, err)
	}
}
