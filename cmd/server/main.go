package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"scribbly/internal/assets"
	"scribbly/internal/auth"
	"scribbly/internal/config"
	"scribbly/internal/core"
	"scribbly/internal/database"
	"scribbly/internal/handlers"
	"scribbly/internal/middleware"
	"scribbly/internal/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
	slog.SetDefault(logger)

	mongodb, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongodb.Close(ctx); err != nil {
			logger.Error("failed to close database connection", "error", err)
		}
	}()
	logger.Info("connected to MongoDB", "database", cfg.Database.Name)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	service := core.NewService(mongodb, tokens, cfg.Auth.BcryptCost, logger)

	var uploader handlers.Uploader
	if cfg.Assets.PrivateKey != "" {
		uploader = assets.NewImageKit(cfg.Assets.PrivateKey, cfg.Assets.UploadURL, cfg.Assets.Folder)
	} else {
		logger.Warn("IMAGEKIT_PRIVATE_KEY not set, image uploads disabled")
	}

	metrics := utils.NewMetricsCollector()
	server := handlers.NewServer(service, tokens, uploader, metrics, logger)
	router := server.NewRouter(middleware.DefaultCORSConfig(cfg.AllowedOrigins))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
