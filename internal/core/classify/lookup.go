package classify

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agenthands/genoscan/internal/core/model"
)

type KnownOrganism struct {
	Name        string            `yaml:"name"`
	IsPathogen  bool              `yaml:"is_pathogen"`
	DangerLevel model.DangerLevel `yaml:"danger_level"`
}

type knownOrganismsFile struct {
	Organisms []KnownOrganism `yaml:"organisms"`
}

func LoadKnownOrganisms(path string) ([]KnownOrganism, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read known organisms '%s': %w", path, err)
	}

	var f knownOrganismsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse known organisms: %w", err)
	}

	for i, o := range f.Organisms {
		if strings.TrimSpace(o.Name) == "" {
			return nil, fmt.Errorf("known organism %d has no name", i)
		}
	}
	return f.Organisms, nil
}

// LookupClassifier answers from a table of known organisms and defers to
// Next for names it does not know. A table entry matches the whole name or a
// leading run of words, so "Escherichia coli" covers "Escherichia coli K-12".
type LookupClassifier struct {
	entries []KnownOrganism
	Next    Classifier
}

func NewLookupClassifier(table []KnownOrganism, next Classifier) *LookupClassifier {
	entries := make([]KnownOrganism, len(table))
	copy(entries, table)
	for i := range entries {
		entries[i].Name = strings.ToLower(strings.TrimSpace(entries[i].Name))
	}
	// Longest names first so the most specific entry wins.
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].Name) > len(entries[j].Name)
	})
	return &LookupClassifier{entries: entries, Next: next}
}

func (l *LookupClassifier) Lookup(organism string) (model.Classification, bool) {
	name := strings.ToLower(strings.TrimSpace(organism))
	for _, e := range l.entries {
		if name == e.Name || strings.HasPrefix(name, e.Name+" ") {
			return model.Classification{IsPathogen: e.IsPathogen, Danger: e.DangerLevel}, true
		}
	}
	return model.Classification{}, false
}

func (l *LookupClassifier) Classify(ctx context.Context, organism string) (model.Classification, error) {
	if c, ok := l.Lookup(organism); ok {
		return c, nil
	}
	if l.Next == nil {
		return ClassifyKeywords(organism), nil
	}
	return l.Next.Classify(ctx, organism)
}
