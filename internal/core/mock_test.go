package core

import (
	"context"

	"github.com/agenthands/genoscan/internal/core/model"
)

type MockFetcher struct {
	Raw   string
	Err   error
	Calls []string
}

func (m *MockFetcher) Fetch(ctx context.Context, accessionID string) (string, error) {
	m.Calls = append(m.Calls, accessionID)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Raw, nil
}

type MockClassifier struct {
	Result model.Classification
	Err    error
	Inputs []string
}

func (m *MockClassifier) Classify(ctx context.Context, organism string) (model.Classification, error) {
	m.Inputs = append(m.Inputs, organism)
	return m.Result, m.Err
}
