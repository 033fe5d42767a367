package fallback

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/genoscan/internal/core/model"
	"github.com/agenthands/genoscan/internal/llm"
)

// Inferrer asks the generative service about an accession ID when the
// registry cannot answer.
type Inferrer struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewInferrer(llmClient llm.LLMClient, prompt string) *Inferrer {
	return &Inferrer{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

// Infer sends one prompt. A service failure is reported in the result's
// Response and Err fields; it is never returned to the caller.
func (i *Inferrer) Infer(ctx context.Context, accessionID string) model.FallbackResult {
	response, err := i.LLM.Generate(ctx, fmt.Sprintf(i.Prompt, accessionID))
	if err == nil && strings.TrimSpace(response) == "" {
		err = fmt.Errorf("empty response")
	}
	if err != nil {
		ierr := &model.InferenceError{Step: "fallback", Err: err}
		return model.FallbackResult{
			Response: "Fallback inference failed: " + err.Error(),
			Err:      ierr,
		}
	}
	return model.FallbackResult{Response: strings.TrimSpace(response)}
}
