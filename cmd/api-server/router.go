package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio/internal/artists"
	"portfolio/internal/auth"
	"portfolio/internal/categories"
	"portfolio/internal/events"
	"portfolio/internal/expertises"
	"portfolio/internal/httpx"
	"portfolio/internal/labels"
	"portfolio/internal/relations"
	"portfolio/internal/works"
	"portfolio/pkg/utils"
)

// newRouter wires every public, auth and admin route onto one engine.
func newRouter(cfg utils.Config, db *sql.DB, dbPath string, logger *zap.Logger) (*gin.Engine, *events.Hub) {
	router := gin.New()
	router.Use(httpx.Recovery(logger), httpx.RequestLogger(logger))
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := events.NewHub(logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbPath})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/"+cfg.DefaultLocale+"/works")
	})

	norm := relations.NewNormalizer(cfg.PlaceholderImage)

	workRepo := works.NewRepo(db)
	workHandler := works.NewHandler(works.NewService(workRepo, norm), hub, logger)
	artistHandler := artists.NewHandler(artists.NewRepo(db), workRepo, norm, hub, logger)
	categoryHandler := categories.NewHandler(categories.NewRepo(db), hub, logger)
	labelHandler := labels.NewHandler(labels.NewRepo(db), hub, logger)
	expertiseHandler := expertises.NewHandler(expertises.NewRepo(db), norm, hub, logger)

	// Public, localized
	public := router.Group("/:locale", httpx.LocaleMiddleware())
	workHandler.RegisterPublicRoutes(public)
	artistHandler.RegisterPublicRoutes(public)
	categoryHandler.RegisterPublicRoutes(public)
	expertiseHandler.RegisterPublicRoutes(public)
	labelHandler.RegisterPublicRoutes(router.Group(""))

	// Auth
	tokenSvc := auth.TokenService{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Issuer:   cfg.Auth.JWTIssuer,
		Duration: cfg.Auth.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	auth.NewHandler(authRepo, tokenSvc, logger).RegisterRoutes(router.Group("/auth"))

	// Admin (protected)
	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(tokenSvc, authRepo))
	admin.GET("/events", events.WSHandler(hub))
	workHandler.RegisterAdminRoutes(admin)
	artistHandler.RegisterAdminRoutes(admin)
	categoryHandler.RegisterAdminRoutes(admin)
	labelHandler.RegisterAdminRoutes(admin)
	expertiseHandler.RegisterAdminRoutes(admin)

	return router, hub
}
