package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/chianti/chianti-go/internal/config"
	"github.com/chianti/chianti-go/internal/db"
	"github.com/chianti/chianti-go/internal/db/repository"
	"github.com/chianti/chianti-go/internal/handler"
	"github.com/chianti/chianti-go/internal/imagecache"
	"github.com/chianti/chianti-go/internal/middleware"
	"github.com/chianti/chianti-go/internal/service"
	"github.com/chianti/chianti-go/internal/validation"
	"github.com/chianti/chianti-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	logger.Log.Info("Database connection established",
		zap.Int32("maxConns", pool.Config().MaxConns),
	)

	images, err := imagecache.New(cfg.Images.DataDir, &http.Client{Timeout: cfg.Images.FetchTimeout})
	if err != nil {
		logger.Log.Fatal("Failed to initialize image cache", zap.Error(err))
	}

	channelRepo := repository.NewChannelRepository(pool)
	videoRepo := repository.NewVideoRepository(pool)
	tagRepo := repository.NewTagRepository(pool)
	historyRepo := repository.NewWatchHistoryRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	ingestService := service.NewIngestService(
		channelRepo,
		videoRepo,
		tagRepo,
		historyRepo,
		images,
		validation.New(),
	)

	watchHistoryHandler := handler.NewWatchHistoryHandler(ingestService, historyRepo)
	videoHandler := handler.NewVideoHandler(videoRepo, tagRepo)
	channelHandler := handler.NewChannelHandler(channelRepo, videoRepo, tagRepo)
	tagHandler := handler.NewTagHandler(tagRepo)
	imageHandler := handler.NewImageHandler(images)
	statsHandler := handler.NewStatsHandler(statsRepo)
	healthHandler := handler.NewHealthHandler(pool)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())

	api := router.Group("/api")
	{
		api.GET("/ping", healthHandler.Ping)

		api.POST("/watch_history", watchHistoryHandler.Create)
		api.GET("/watch_history", watchHistoryHandler.List)
		api.GET("/watch_history/:id", watchHistoryHandler.Get)

		api.GET("/videos", videoHandler.List)
		api.GET("/videos/:id", videoHandler.Get)

		api.GET("/channels", channelHandler.List)
		api.GET("/channels/:id", channelHandler.Get)

		api.GET("/tags", tagHandler.List)
		api.GET("/tags/:id", tagHandler.Get)

		api.GET("/avatars/:id", imageHandler.Avatar)
		api.GET("/thumbnails/:id", imageHandler.Thumbnail)

		api.GET("/statistics/overview", statsHandler.Overview)
	}

	router.GET("/health", healthHandler.LivenessProbe)
	router.GET("/ready", healthHandler.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Log.Fatal("Server error", zap.Error(err))
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Log.Error("Graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Log.Error("Failed to close server", zap.Error(err))
			}
			os.Exit(1)
		}

		logger.Log.Info("Server stopped gracefully")
	}
}
