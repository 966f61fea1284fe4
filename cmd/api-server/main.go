package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"portfolio/internal/auth"
	"portfolio/pkg/database"
	"portfolio/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	logger := utils.MustLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg, logger)
	defer db.Close()

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		created, err := auth.NewRepo(db).EnsureAdmin(context.Background(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		if err != nil {
			logger.Fatal("admin bootstrap failed", zap.Error(err))
		}
		if created {
			logger.Info("admin user created", zap.String("email", cfg.Auth.AdminEmail))
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router, _ := newRouter(cfg, db, dbCfg.Path, logger)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP API server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
