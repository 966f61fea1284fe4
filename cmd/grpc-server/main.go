package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"portfolio/internal/grpcserver"
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

	db := database.MustOpen(database.DefaultConfig(), logger)
	defer db.Close()

	listener, err := net.Listen("tcp", cfg.GrpcAddr)
	if err != nil {
		logger.Fatal("grpc listen failed", zap.Error(err), zap.String("addr", cfg.GrpcAddr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	health := grpcserver.NewHealth(db, 10*time.Second, logger)
	grpcServer := grpc.NewServer()
	health.Register(grpcServer)
	go health.Run(ctx)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down gRPC server")
		grpcServer.GracefulStop()
	}()

	logger.Info("gRPC server listening", zap.String("addr", cfg.GrpcAddr))
	if err := grpcServer.Serve(listener); err != nil {
		logger.Error("grpc server stopped", zap.Error(err))
		os.Exit(1)
	}
}
