package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/genoscan/internal/core/model"
	"github.com/agenthands/genoscan/internal/llm"
)

// Summarizer phrases an analysis result as a plain-language report.
type Summarizer struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewSummarizer(llmClient llm.LLMClient, prompt string) *Summarizer {
	return &Summarizer{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

// Summarize returns the generated report, or a model.InferenceError when the
// service fails or answers with nothing.
func (s *Summarizer) Summarize(ctx context.Context, result model.AnalysisResult) (string, error) {
	prompt := fmt.Sprintf(s.Prompt, result.Subject(), result.IsPathogen, result.DangerLevel)

	response, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", &model.InferenceError{Step: "report", Err: fmt.Errorf("failed to generate report: %w", err)}
	}

	report := strings.TrimSpace(response)
	if report == "" {
		return "", &model.InferenceError{Step: "report", Err: fmt.Errorf("empty report")}
	}
	return report, nil
}

// Report never fails: service errors become an explanatory string.
func (s *Summarizer) Report(ctx context.Context, result model.AnalysisResult) string {
	report, err := s.Summarize(ctx, result)
	if err != nil {
		return "Report generation failed: " + err.Error()
	}
	return report
}
