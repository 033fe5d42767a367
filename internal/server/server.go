package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenthands/genoscan/internal/config"
	"github.com/agenthands/genoscan/internal/core"
	"github.com/agenthands/genoscan/internal/core/classify"
	"github.com/agenthands/genoscan/internal/core/model"
	"github.com/agenthands/genoscan/internal/llm"
	"github.com/agenthands/genoscan/internal/logging"
	"github.com/agenthands/genoscan/internal/registry"
	"github.com/agenthands/genoscan/internal/trends"
)

const serviceName = "genomic-analyzer"

type Analyzer interface {
	Analyze(ctx context.Context, genomicID string) (model.AnalysisResult, error)
}

type TrendsProvider interface {
	Prevalence(ctx context.Context, lineage, location string) trends.Result
}

type Server struct {
	Analyzer Analyzer
	Trends   TrendsProvider
	Config   *config.Config
	Logger   *zap.Logger
}

func NewServer(cfg *config.Config, analyzer Analyzer, trendsProvider TrendsProvider, logger *zap.Logger) *Server {
	return &Server{
		Analyzer: analyzer,
		Trends:   trendsProvider,
		Config:   cfg,
		Logger:   logging.OrNop(logger),
	}
}

// NewAnalyzer wires the pipeline from configuration.
func NewAnalyzer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*core.Analyzer, error) {
	llmClient, err := llm.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	classifier, err := classify.New(cfg.Classifier, llmClient, cfg.Prompts.Classify, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize classifier: %w", err)
	}

	fetcher := registry.NewEFetchClient(cfg.Registry, nil, logger)
	return core.NewAnalyzer(fetcher, classifier, llmClient, cfg, logger), nil
}

// Build creates a Server with every production dependency.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	analyzer, err := NewAnalyzer(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewServer(cfg, analyzer, trends.NewClient(cfg.Trends, nil, logger), logger), nil
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(s.Logger))
	r.Use(cors.New(s.corsConfig()))
	if s.Config != nil && s.Config.Server.RequestTimeout.Duration > 0 {
		r.Use(RequestTimeout(s.Config.Server.RequestTimeout.Duration))
	}

	r.GET("/health", s.Health)
	r.GET("/analyze/:genomic_id", s.Analyze)
	r.GET("/variant-trends/:variant", s.VariantTrends)

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if s.Config != nil && len(s.Config.Server.AllowedOrigins) > 0 {
		cfg.AllowOrigins = s.Config.Server.AllowedOrigins
	} else {
		cfg.AllowOrigins = []string{"http://localhost:5173"}
	}
	return cfg
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}

func (s *Server) Analyze(c *gin.Context) {
	genomicID := c.Param("genomic_id")

	result, err := s.Analyzer.Analyze(c.Request.Context(), genomicID)
	if errors.Is(err, core.ErrEmptyAccession) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "genomic_id": genomicID})
		return
	}
	if err != nil {
		// Analyze folds upstream failures into the result, so this is unexpected.
		s.Logger.Error("analysis failed", zap.String("genomic_id", genomicID), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"error": "Analysis failed", "details": err.Error(), "genomic_id": genomicID})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) VariantTrends(c *gin.Context) {
	variant := strings.TrimSpace(c.Param("variant"))
	if variant == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "variant is required"})
		return
	}

	c.JSON(http.StatusOK, s.Trends.Prevalence(c.Request.Context(), variant, c.Query("location")))
}
