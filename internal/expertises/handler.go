package expertises

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio/internal/events"
	"portfolio/internal/httpx"
	"portfolio/internal/relations"
	"portfolio/pkg/database"
	"portfolio/pkg/models"
	"portfolio/pkg/utils"
)

type Handler struct {
	Repo       *Repo
	Normalizer relations.Normalizer
	Events     *events.Hub
	Log        *zap.Logger
}

func NewHandler(repo *Repo, norm relations.Normalizer, hub *events.Hub, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Repo: repo, Normalizer: norm, Events: hub, Log: log}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/expertises", h.listPublic)
	rg.GET("/expertises/:slug", h.detail)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/expertises", h.listAdmin)
	rg.POST("/expertises", h.create)
	rg.PUT("/expertises/:id", h.update)
	rg.DELETE("/expertises/:id", h.remove)
}

type page struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	Image       string `json:"image"`
	ImageAlt    string `json:"image_alt"`
}

// localize mirrors work cards: title falls back to the slug, alt to the title.
func (h *Handler) localize(e models.Expertise, locale string, withContent bool) page {
	p := page{Slug: e.Slug, Title: e.Slug}
	if t, ok := e.Translation(locale); ok {
		if s := strings.TrimSpace(t.Title); s != "" {
			p.Title = s
		}
		p.Description = t.Description
		if withContent {
			p.Content = t.Content
		}
	}
	p.ImageAlt = p.Title

	var path string
	if e.Image != nil {
		path = e.Image.Path
		if a := strings.TrimSpace(e.Image.Alt); a != "" {
			p.ImageAlt = a
		}
	}
	p.Image = h.Normalizer.ResolveImageURL(path)
	return p
}

func (h *Handler) listPublic(c *gin.Context) {
	locale := httpx.Locale(c)

	list, err := h.Repo.List(c.Request.Context())
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "list failed", err)
		return
	}
	out := make([]page, 0, len(list))
	for _, e := range list {
		out = append(out, h.localize(e, locale, false))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *Handler) detail(c *gin.Context) {
	e, err := h.Repo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "lookup failed", err)
		return
	}
	if e == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, h.localize(*e, httpx.Locale(c), true))
}

func (h *Handler) listAdmin(c *gin.Context) {
	list, err := h.Repo.List(c.Request.Context())
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "list failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

type upsertReq struct {
	Slug         string                        `json:"slug"`
	SortOrder    int                           `json:"sort_order"`
	ImagePath    string                        `json:"image_path"`
	ImageAlt     string                        `json:"image_alt"`
	Translations []models.ExpertiseTranslation `json:"translations" binding:"required,min=1"`
}

func (req upsertReq) toInput() (Input, error) {
	locales := make([]string, 0, len(req.Translations))
	trs := make([]models.ExpertiseTranslation, 0, len(req.Translations))
	for _, t := range req.Translations {
		t.Locale = strings.ToLower(strings.TrimSpace(t.Locale))
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			return Input{}, errors.New("translation title required")
		}
		t.Description = strings.TrimSpace(t.Description)
		locales = append(locales, t.Locale)
		trs = append(trs, t)
	}
	if err := utils.ValidateLocales(locales); err != nil {
		return Input{}, err
	}
	slug, err := utils.ResolveSlug(req.Slug, trs[0].Title)
	if err != nil {
		return Input{}, err
	}
	return Input{
		Slug:         slug,
		SortOrder:    req.SortOrder,
		ImagePath:    req.ImagePath,
		ImageAlt:     req.ImageAlt,
		Translations: trs,
	}, nil
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
	e, err := h.Repo.Create(c.Request.Context(), in)
	if err != nil {
		h.writeErr(c, "create failed", err)
		return
	}
	h.Events.Publish(events.TypeCreated, "expertise", e.ID, e.Slug)
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) update(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	e, err := h.Repo.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeErr(c, "update failed", err)
		return
	}
	h.Events.Publish(events.TypeUpdated, "expertise", e.ID, e.Slug)
	c.JSON(http.StatusOK, e)
}

func (h *Handler) remove(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "delete failed", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.Events.Publish(events.TypeDeleted, "expertise", id, "")
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
