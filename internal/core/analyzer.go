package core

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/genoscan/internal/config"
	"github.com/agenthands/genoscan/internal/core/classify"
	"github.com/agenthands/genoscan/internal/core/fallback"
	"github.com/agenthands/genoscan/internal/core/model"
	"github.com/agenthands/genoscan/internal/core/summary"
	"github.com/agenthands/genoscan/internal/llm"
	"github.com/agenthands/genoscan/internal/logging"
	"github.com/agenthands/genoscan/internal/registry"
)

// ErrEmptyAccession is the only error Analyze returns.
var ErrEmptyAccession = errors.New("genomic_id is required")

// Stage names a step of the analysis state machine.
type Stage string

const (
	StageFetchingPrimary  Stage = "fetching_primary"
	StageParsingPrimary   Stage = "parsing_primary"
	StageFallingBack      Stage = "falling_back"
	StageClassifying      Stage = "classifying"
	StageGeneratingReport Stage = "generating_report"
	StageDone             Stage = "done"
)

type Options struct {
	FallbackEnabled           bool
	FallbackOnUnknownOrganism bool
}

// Analyzer runs fetch, parse, classify, fallback and report for one accession ID.
type Analyzer struct {
	Fetcher    registry.Fetcher
	Parse      func(raw string) (model.GenomicRecord, error)
	Classifier classify.Classifier
	Fallback   *fallback.Inferrer
	Summarizer *summary.Summarizer
	Options    Options

	// OnStage, when set, observes every state transition.
	OnStage func(Stage)

	logger *zap.Logger
}

func NewAnalyzer(fetcher registry.Fetcher, classifier classify.Classifier, llmClient llm.LLMClient, cfg *config.Config, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		Fetcher:    fetcher,
		Parse:      registry.Parse,
		Classifier: classifier,
		Fallback:   fallback.NewInferrer(llmClient, cfg.Prompts.Fallback),
		Summarizer: summary.NewSummarizer(llmClient, cfg.Prompts.Report),
		Options: Options{
			FallbackEnabled:           cfg.Pipeline.FallbackEnabled,
			FallbackOnUnknownOrganism: cfg.Pipeline.FallbackOnUnknownOrganism,
		},
		logger: logging.OrNop(logger),
	}
}

// Analyze always produces a well-formed result for a non-empty ID. Upstream
// failures are folded into the Response and Report fields.
func (a *Analyzer) Analyze(ctx context.Context, genomicID string) (model.AnalysisResult, error) {
	// The ID is sent upstream verbatim; trimming only decides emptiness.
	if strings.TrimSpace(genomicID) == "" {
		return model.AnalysisResult{}, ErrEmptyAccession
	}

	log := a.logger.With(zap.String("genomic_id", genomicID))
	result := model.AnalysisResult{GenomicID: genomicID}

	a.enter(StageFetchingPrimary)
	raw, err := a.Fetcher.Fetch(ctx, genomicID)
	if err == nil {
		a.enter(StageParsingPrimary)
		record, perr := a.Parse(raw)
		if perr != nil {
			log.Warn("registry record degraded", zap.Error(perr))
		}

		if perr != nil && a.Options.FallbackOnUnknownOrganism {
			err = perr
		} else {
			a.enter(StageClassifying)
			result.Organism = record.Organism
			result.Source = model.SourceRegistry
			a.classify(ctx, log, &result, record.Organism)
		}
	} else {
		log.Warn("primary registry unavailable", zap.Error(err))
	}

	if err != nil {
		a.enter(StageFallingBack)
		a.fallBack(ctx, log, &result, err)
	}

	a.enter(StageGeneratingReport)
	result.Report = a.Summarizer.Report(ctx, result)

	a.enter(StageDone)
	log.Info("analysis complete",
		zap.String("source", string(result.Source)),
		zap.Bool("is_pathogen", result.IsPathogen),
		zap.Stringer("danger_level", result.DangerLevel))

	return result, nil
}

func (a *Analyzer) fallBack(ctx context.Context, log *zap.Logger, result *model.AnalysisResult, cause error) {
	result.Source = model.SourceFallback

	if !a.Options.FallbackEnabled || a.Fallback == nil {
		result.Response = "Primary registry unavailable: " + cause.Error()
		return
	}

	// The fallback answer is used as-is; classification keeps its zero value.
	fb := a.Fallback.Infer(ctx, result.GenomicID)
	result.Response = fb.Response
	if fb.Err != nil {
		log.Warn("fallback inference failed", zap.Error(fb.Err))
	}
}

func (a *Analyzer) classify(ctx context.Context, log *zap.Logger, result *model.AnalysisResult, text string) {
	c, err := a.Classifier.Classify(ctx, text)
	if err != nil {
		log.Warn("classifier failed, using keyword heuristic", zap.Error(err))
		c = classify.ClassifyKeywords(text)
	}
	result.IsPathogen = c.IsPathogen
	result.DangerLevel = c.Danger
}

func (a *Analyzer) enter(s Stage) {
	if a.OnStage != nil {
		a.OnStage(s)
	}
}
