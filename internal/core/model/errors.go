package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three failure classes of the pipeline.
var (
	ErrFetchUnavailable     = errors.New("primary registry unavailable")
	ErrParseDegraded        = errors.New("registry record degraded")
	ErrInferenceUnavailable = errors.New("inference service unavailable")
)

// FetchOutcome describes a non-Ok registry fetch.
type FetchOutcome string

const (
	OutcomeEmpty        FetchOutcome = "empty"
	OutcomeHTTPError    FetchOutcome = "http_error"
	OutcomeNetworkError FetchOutcome = "network_error"
)

// FetchError is returned by the registry fetcher for every non-Ok outcome.
// It matches ErrFetchUnavailable with errors.Is.
type FetchError struct {
	Outcome FetchOutcome
	Status  int
	Err     error
}

func (e *FetchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Outcome {
	case OutcomeEmpty:
		return "registry returned an empty body"
	case OutcomeHTTPError:
		return fmt.Sprintf("registry returned status %d", e.Status)
	default:
		if e.Err != nil {
			return fmt.Sprintf("registry request failed: %v", e.Err)
		}
		return "registry request failed"
	}
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchUnavailable
}

// InferenceError wraps a generative service failure for a named step.
type InferenceError struct {
	Step string
	Err  error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

func (e *InferenceError) Is(target error) bool {
	return target == ErrInferenceUnavailable
}
