package works

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
	Service *Service
	Events  *events.Hub
	Log     *zap.Logger
}

func NewHandler(svc *Service, hub *events.Hub, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Service: svc, Events: hub, Log: log}
}

// RegisterPublicRoutes expects a group carrying httpx.LocaleMiddleware.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/works", h.listPublic)
	rg.GET("/works/:slug", h.detail)
	rg.GET("/relations", h.relations)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/works", h.listAdmin)
	rg.GET("/works/:id", h.getAdmin)
	rg.POST("/works", h.create)
	rg.PUT("/works/:id", h.update)
	rg.DELETE("/works/:id", h.remove)
}

type listResponse struct {
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Items  []relations.SimpleWork `json:"items"`
}

func (h *Handler) listPublic(c *gin.Context) {
	limit, offset := httpx.Page(c, 24)

	items, total, err := h.Service.Cards(c.Request.Context(), httpx.Locale(c), ListQuery{
		Category:      c.Query("category"),
		Q:             c.Query("q"),
		PublishedOnly: true,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "list failed", err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Total: total, Limit: limit, Offset: offset, Items: items})
}

func (h *Handler) detail(c *gin.Context) {
	d, err := h.Service.Detail(c.Request.Context(), httpx.Locale(c), c.Param("slug"))
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "lookup failed", err)
		return
	}
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) relations(c *gin.Context) {
	idx, err := h.Service.Relations(c.Request.Context(), httpx.Locale(c))
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "relations failed", err)
		return
	}
	c.JSON(http.StatusOK, idx)
}

func (h *Handler) listAdmin(c *gin.Context) {
	limit, offset := httpx.Page(c, 50)

	ws, total, err := h.Service.Repo.List(c.Request.Context(), ListQuery{
		Category: c.Query("category"),
		Q:        c.Query("q"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "list failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "limit": limit, "offset": offset, "items": ws})
}

func (h *Handler) getAdmin(c *gin.Context) {
	w, err := h.Service.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "lookup failed", err)
		return
	}
	if w == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, w)
}

type contributionReq struct {
	ArtistID string `json:"artist_id" binding:"required"`
	Role     string `json:"role"`
}

type upsertReq struct {
	Slug          string                   `json:"slug"`
	CategoryID    string                   `json:"category_id"`
	LabelID       string                   `json:"label_id"`
	CoverPath     string                   `json:"cover_path"`
	CoverAlt      string                   `json:"cover_alt"`
	Year          *int                     `json:"year" binding:"omitempty,min=1900,max=2100"`
	ExternalURL   string                   `json:"external_url" binding:"omitempty,url"`
	YoutubeURL    string                   `json:"youtube_url" binding:"omitempty,url"`
	SpotifyURL    string                   `json:"spotify_url" binding:"omitempty,url"`
	SortOrder     int                      `json:"sort_order"`
	Published     *bool                    `json:"published"`
	Translations  []models.WorkTranslation `json:"translations" binding:"required,min=1"`
	Contributions []contributionReq        `json:"contributions" binding:"omitempty,dive"`
}

func (req upsertReq) toInput() (Input, error) {
	locales := make([]string, 0, len(req.Translations))
	trs := make([]models.WorkTranslation, 0, len(req.Translations))
	for _, t := range req.Translations {
		t.Locale = strings.ToLower(strings.TrimSpace(t.Locale))
		t.Title = strings.TrimSpace(t.Title)
		t.Description = strings.TrimSpace(t.Description)
		if t.Title == "" {
			return Input{}, errors.New("translation title required")
		}
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

	type creditKey struct{ artist, role string }
	seen := make(map[creditKey]struct{}, len(req.Contributions))
	credits := make([]ContributionInput, 0, len(req.Contributions))
	for _, ct := range req.Contributions {
		k := creditKey{strings.TrimSpace(ct.ArtistID), strings.TrimSpace(ct.Role)}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		credits = append(credits, ContributionInput{ArtistID: k.artist, Role: k.role})
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	return Input{
		Slug:          slug,
		CategoryID:    strings.TrimSpace(req.CategoryID),
		LabelID:       strings.TrimSpace(req.LabelID),
		CoverPath:     req.CoverPath,
		CoverAlt:      req.CoverAlt,
		Year:          req.Year,
		ExternalURL:   strings.TrimSpace(req.ExternalURL),
		YoutubeURL:    strings.TrimSpace(req.YoutubeURL),
		SpotifyURL:    strings.TrimSpace(req.SpotifyURL),
		SortOrder:     req.SortOrder,
		Published:     published,
		Translations:  trs,
		Contributions: credits,
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
	w, err := h.Service.Repo.Create(c.Request.Context(), in)
	if err != nil {
		h.writeErr(c, "create failed", err)
		return
	}
	h.Events.Publish(events.TypeCreated, "work", w.ID, w.Slug)
	c.JSON(http.StatusCreated, w)
}

func (h *Handler) update(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	w, err := h.Service.Repo.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeErr(c, "update failed", err)
		return
	}
	h.Events.Publish(events.TypeUpdated, "work", w.ID, w.Slug)
	c.JSON(http.StatusOK, w)
}

func (h *Handler) remove(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.Service.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "delete failed", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.Events.Publish(events.TypeDeleted, "work", id, "")
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) writeErr(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, database.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "slug already exists"})
	case errors.Is(err, ErrUnknownReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		httpx.Fail(c, h.Log, http.StatusInternalServerError, msg, err)
	}
}
