package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agenthands/genoscan/internal/config"
	"github.com/agenthands/genoscan/internal/logging"
	"github.com/agenthands/genoscan/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.toml"
	}

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	gin.SetMode(cfg.Server.GinMode)

	srv, err := server.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}
	r := srv.SetupRouter()

	logger.Info("starting server",
		zap.String("port", cfg.Server.Port),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("classifier", cfg.Classifier.Strategy),
		zap.Bool("fallback_enabled", cfg.Pipeline.FallbackEnabled),
	)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
