package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"calctree/internal/auth"
	"calctree/internal/calculation"
	"calctree/internal/config"
	"calctree/internal/observability"
	"calctree/internal/server"
	"calctree/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := observability.InitLogger(); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		observability.Logger.Fatal("opening database failed", zap.Error(err))
	}

	authSvc := auth.NewService(store, []byte(cfg.JWTSecret))
	calcSvc := calculation.NewService(store)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.NewRouter(authSvc, calcSvc),
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.Addr))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv)
}

func waitForShutdown(srv *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv.Shutdown(ctx)
}
