package classify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agenthands/genoscan/internal/config"
	"github.com/agenthands/genoscan/internal/core/common"
	"github.com/agenthands/genoscan/internal/core/model"
	"github.com/agenthands/genoscan/internal/llm"
	"github.com/agenthands/genoscan/internal/logging"
)

type modelVerdict struct {
	IsPathogen  bool   `json:"is_pathogen"`
	DangerLevel string `json:"danger_level"`
}

// ModelClassifier asks the generative model for a verdict and uses Fallback
// when the call fails or the answer cannot be parsed.
type ModelClassifier struct {
	LLM      llm.LLMClient
	Prompt   string
	Fallback Classifier
	logger   *zap.Logger
}

func NewModelClassifier(client llm.LLMClient, prompt string, fallback Classifier, logger *zap.Logger) *ModelClassifier {
	if prompt == "" {
		prompt = config.DefaultClassifyPrompt
	}
	return &ModelClassifier{
		LLM:      client,
		Prompt:   prompt,
		Fallback: fallback,
		logger:   logging.OrNop(logger),
	}
}

func (m *ModelClassifier) Classify(ctx context.Context, organism string) (model.Classification, error) {
	c, err := m.ask(ctx, organism)
	if err == nil {
		return c, nil
	}

	m.logger.Warn("model classification failed, using fallback classifier",
		zap.String("organism", organism), zap.Error(err))
	if m.Fallback == nil {
		return ClassifyKeywords(organism), nil
	}
	return m.Fallback.Classify(ctx, organism)
}

func (m *ModelClassifier) ask(ctx context.Context, organism string) (model.Classification, error) {
	response, err := m.LLM.Generate(ctx, fmt.Sprintf(m.Prompt, organism))
	if err != nil {
		return model.Classification{}, fmt.Errorf("failed to generate classification: %w", err)
	}

	verdict, err := common.ParseJSON[modelVerdict](response)
	if err != nil {
		return model.Classification{}, fmt.Errorf("failed to parse classification: %w", err)
	}

	danger, err := model.ParseDangerLevel(verdict.DangerLevel)
	if err != nil {
		return model.Classification{}, err
	}
	return model.Classification{IsPathogen: verdict.IsPathogen, Danger: danger}, nil
}
