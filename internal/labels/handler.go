package labels

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

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/labels", h.list)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/labels", h.list)
	rg.POST("/labels", h.create)
	rg.PUT("/labels/:id", h.update)
	rg.DELETE("/labels/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Repo.List(c.Request.Context())
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "list failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type upsertReq struct {
	Slug       string `json:"slug"`
	Name       string `json:"name" binding:"required"`
	WebsiteURL string `json:"website_url" binding:"omitempty,url"`
}

func (h *Handler) bind(c *gin.Context) (models.Label, bool) {
	var req upsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required, website_url must be a url"})
		return models.Label{}, false
	}
	name := strings.TrimSpace(req.Name)
	slug, err := utils.ResolveSlug(req.Slug, name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Label{}, false
	}
	return models.Label{Slug: slug, Name: name, WebsiteURL: strings.TrimSpace(req.WebsiteURL)}, true
}

func (h *Handler) create(c *gin.Context) {
	l, ok := h.bind(c)
	if !ok {
		return
	}
	saved, err := h.Repo.Create(c.Request.Context(), l)
	if err != nil {
		h.writeErr(c, "create failed", err)
		return
	}
	h.Events.Publish(events.TypeCreated, "label", saved.ID, saved.Slug)
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) update(c *gin.Context) {
	l, ok := h.bind(c)
	if !ok {
		return
	}
	l.ID = c.Param("id")
	saved, err := h.Repo.Update(c.Request.Context(), l)
	if err != nil {
		h.writeErr(c, "update failed", err)
		return
	}
	h.Events.Publish(events.TypeUpdated, "label", saved.ID, saved.Slug)
	c.JSON(http.StatusOK, saved)
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
	h.Events.Publish(events.TypeDeleted, "label", id, "")
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
