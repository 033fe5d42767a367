package classify

import (
	"context"
	"strings"

	"github.com/agenthands/genoscan/internal/core/model"
)

var pathogenKeywords = []string{"virus", "bacterium", "plasmid", "pathogen"}

// ClassifyKeywords is the deterministic name heuristic. Any keyword marks the
// organism as a pathogen; "virus" is High, other keywords Medium, none Low.
func ClassifyKeywords(organism string) model.Classification {
	name := strings.ToLower(organism)

	isPathogen := false
	for _, kw := range pathogenKeywords {
		if strings.Contains(name, kw) {
			isPathogen = true
			break
		}
	}

	switch {
	case strings.Contains(name, "virus"):
		return model.Classification{IsPathogen: isPathogen, Danger: model.DangerHigh}
	case isPathogen:
		return model.Classification{IsPathogen: true, Danger: model.DangerMedium}
	default:
		return model.Classification{IsPathogen: false, Danger: model.DangerLow}
	}
}

type KeywordClassifier struct{}

func (KeywordClassifier) Classify(_ context.Context, organism string) (model.Classification, error) {
	return ClassifyKeywords(organism), nil
}
