package artists

import (
	"context"
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

// WorkLister returns the published works crediting an artist.
type WorkLister interface {
	PublishedByArtist(ctx context.Context, artistID string) ([]models.Work, error)
}

type Handler struct {
	Repo       *Repo
	Works      WorkLister
	Normalizer relations.Normalizer
	Events     *events.Hub
	Log        *zap.Logger
}

func NewHandler(repo *Repo, works WorkLister, norm relations.Normalizer, hub *events.Hub, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Repo: repo, Works: works, Normalizer: norm, Events: hub, Log: log}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/artists", h.listPublic)
	rg.GET("/artists/:slug", h.detail)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/artists", h.listAdmin)
	rg.POST("/artists", h.create)
	rg.PUT("/artists/:id", h.update)
	rg.DELETE("/artists/:id", h.remove)
}

type artistCard struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Bio   string `json:"bio,omitempty"`
}

type artistDetail struct {
	artistCard
	Socials []models.SocialLink    `json:"socials"`
	Works   []relations.SimpleWork `json:"works"`
}

func (h *Handler) card(a models.Artist, locale string) artistCard {
	var path string
	if a.Image != nil {
		path = a.Image.Path
	}
	return artistCard{
		Slug:  a.Slug,
		Name:  a.Name,
		Image: h.Normalizer.ResolveImageURL(path),
		Bio:   a.Bio(locale),
	}
}

func (h *Handler) listPublic(c *gin.Context) {
	locale := httpx.Locale(c)

	list, err := h.Repo.List(c.Request.Context())
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "list failed", err)
		return
	}
	out := make([]artistCard, 0, len(list))
	for _, a := range list {
		out = append(out, h.card(a, locale))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *Handler) detail(c *gin.Context) {
	locale := httpx.Locale(c)
	ctx := c.Request.Context()

	a, err := h.Repo.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		httpx.Fail(c, h.Log, http.StatusInternalServerError, "lookup failed", err)
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var works []models.Work
	if h.Works != nil {
		works, err = h.Works.PublishedByArtist(ctx, a.ID)
		if err != nil {
			httpx.Fail(c, h.Log, http.StatusInternalServerError, "works lookup failed", err)
			return
		}
	}

	c.JSON(http.StatusOK, artistDetail{
		artistCard: h.card(*a, locale),
		Socials:    a.SocialLinks(),
		Works:      h.Normalizer.ToSimpleWorks(works, locale),
	})
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
	Slug         string                     `json:"slug"`
	Name         string                     `json:"name" binding:"required"`
	ImagePath    string                     `json:"image_path"`
	ImageAlt     string                     `json:"image_alt"`
	WebsiteURL   string                     `json:"website_url" binding:"omitempty,url"`
	SpotifyURL   string                     `json:"spotify_url" binding:"omitempty,url"`
	InstagramURL string                     `json:"instagram_url" binding:"omitempty,url"`
	YoutubeURL   string                     `json:"youtube_url" binding:"omitempty,url"`
	Translations []models.ArtistTranslation `json:"translations"`
}

func (req upsertReq) toInput() (Input, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Input{}, errors.New("name required")
	}
	slug, err := utils.ResolveSlug(req.Slug, name)
	if err != nil {
		return Input{}, err
	}

	locales := make([]string, 0, len(req.Translations))
	trs := make([]models.ArtistTranslation, 0, len(req.Translations))
	for _, t := range req.Translations {
		t.Locale = strings.ToLower(strings.TrimSpace(t.Locale))
		t.Bio = strings.TrimSpace(t.Bio)
		locales = append(locales, t.Locale)
		trs = append(trs, t)
	}
	if len(locales) > 0 {
		if err := utils.ValidateLocales(locales); err != nil {
			return Input{}, err
		}
	}

	return Input{
		Slug:         slug,
		Name:         name,
		ImagePath:    req.ImagePath,
		ImageAlt:     req.ImageAlt,
		WebsiteURL:   strings.TrimSpace(req.WebsiteURL),
		SpotifyURL:   strings.TrimSpace(req.SpotifyURL),
		InstagramURL: strings.TrimSpace(req.InstagramURL),
		YoutubeURL:   strings.TrimSpace(req.YoutubeURL),
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
	a, err := h.Repo.Create(c.Request.Context(), in)
	if err != nil {
		h.writeErr(c, "create failed", err)
		return
	}
	h.Events.Publish(events.TypeCreated, "artist", a.ID, a.Slug)
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) update(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	a, err := h.Repo.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeErr(c, "update failed", err)
		return
	}
	h.Events.Publish(events.TypeUpdated, "artist", a.ID, a.Slug)
	c.JSON(http.StatusOK, a)
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
	h.Events.Publish(events.TypeDeleted, "artist", id, "")
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
