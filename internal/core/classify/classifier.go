// Package classify maps organism names to a pathogen flag and danger tier.
//
// Three strategies are available: a keyword heuristic, a table of known
// organisms backed by the heuristic, and a generative model backed by the
// heuristic. All of them return a classification for any input.
package classify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/genoscan/internal/config"
	"github.com/agenthands/genoscan/internal/core/model"
	"github.com/agenthands/genoscan/internal/llm"
)

type Classifier interface {
	Classify(ctx context.Context, organism string) (model.Classification, error)
}

// New builds the classifier selected by cfg.Strategy.
func New(cfg config.ClassifierConfig, llmClient llm.LLMClient, prompt string, logger *zap.Logger) (Classifier, error) {
	switch strings.ToLower(cfg.Strategy) {
	case "", "keyword":
		return KeywordClassifier{}, nil

	case "lookup":
		if cfg.KnownOrganismsPath == "" {
			return nil, fmt.Errorf("lookup classifier requires known_organisms_path")
		}
		table, err := LoadKnownOrganisms(cfg.KnownOrganismsPath)
		if err != nil {
			return nil, err
		}
		return NewLookupClassifier(table, KeywordClassifier{}), nil

	case "model":
		if llmClient == nil {
			return nil, fmt.Errorf("model classifier requires an llm client")
		}
		return NewModelClassifier(llmClient, prompt, KeywordClassifier{}, logger), nil

	default:
		return nil, fmt.Errorf("unsupported classifier strategy: %s", cfg.Strategy)
	}
}
