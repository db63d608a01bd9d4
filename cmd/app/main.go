package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"todo_store/internal/config"
	"todo_store/internal/db"
	httpServer "todo_store/internal/http"
	"todo_store/internal/http/middleware"
	"todo_store/internal/logger"
	"todo_store/internal/repository"
	"todo_store/internal/service"
	"todo_store/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	if err := db.Migrate(context.Background(), dbPool); err != nil {
		logger.Fatal("failed to apply migrations", "error", err)
	}

	redisClient := middleware.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		defer redisClient.Close()
	}

	tokens := service.NewTokenIssuer(cfg.JWTSecret, 0)
	if tokens == nil {
		logger.Warn("JWT_SECRET is not set, write endpoints are open")
	}

	hub := ws.NewHub()
	defer hub.Close()

	repo := repository.NewTodoRepository(dbPool)
	todos := service.NewTodoService(repo, hub)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.Component("http")))

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Todos:         todos,
		Store:         repo,
		Hub:           hub,
		Tokens:        tokens,
		Redis:         redisClient,
		Version:       cfg.Version,
		AllowedOrigin: cfg.AllowedOrigin,
		RateLimit:     cfg.APIRateLimit,
		RateWindow:    cfg.APIRateWindow,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
