package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/genoscan/internal/config"
	"github.com/agenthands/genoscan/internal/logging"
	"github.com/agenthands/genoscan/internal/server"
	"github.com/agenthands/genoscan/internal/trends"
)

var (
	// Global flags
	configPath string
	verbose    bool
	timeout    time.Duration

	// Analyze flags
	jsonOutput bool

	// Trends flags
	location string

	cfg    *config.Config
	logger *zap.Logger

	// buildAnalyzer is swapped in tests.
	buildAnalyzer = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (server.Analyzer, error) {
		return server.NewAnalyzer(ctx, cfg, logger)
	}
	buildTrends = func(cfg *config.Config, logger *zap.Logger) server.TrendsProvider {
		return trends.NewClient(cfg.Trends, nil, logger)
	}
)

var rootCmd = &cobra.Command{
	Use:   "genoscan",
	Short: "genoscan - pathogen analysis for genomic accession IDs",
	Long: `genoscan resolves a genomic accession ID to its organism using the NCBI
nucleotide registry, classifies it as pathogenic or not with a danger level
and writes a plain-language report with an LLM.

When the registry cannot be reached the LLM infers the organism instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.LoadWithEnv(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [genomic-id]",
	Short: "Analyze a genomic accession ID",
	Long: `Runs the full pipeline for one accession ID and prints the report.

Example:
  genoscan analyze NC_045512
  genoscan analyze NC_045512 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var trendsCmd = &cobra.Command{
	Use:   "trends [lineage]",
	Short: "Show prevalence of a variant lineage over time",
	Long: `Queries outbreak.info for the daily prevalence of a pangolin lineage.

Example:
  genoscan trends XBB.1.5 --location GBR`,
	Args: cobra.ExactArgs(1),
	RunE: runTrends,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.toml", "Path to the TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the raw JSON result")
	trendsCmd.Flags().StringVar(&location, "location", "", "ISO3 location code (default from config)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stop()
		cancel()
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	analyzer, err := buildAnalyzer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	rendered, err := renderResult(result)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

func runTrends(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	res := buildTrends(cfg, logger).Prevalence(ctx, args[0], location)
	if res.Error != "" {
		logger.Warn("variant trends unavailable", zap.String("lineage", args[0]), zap.String("error", res.Error))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func runServe(cmd *cobra.Command, args []string) error {
	gin.SetMode(cfg.Server.GinMode)

	srv, err := server.Build(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("starting server", zap.String("port", cfg.Server.Port))
	return srv.SetupRouter().Run(":" + cfg.Server.Port)
}
