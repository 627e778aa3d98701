// Package service provides the chat orchestration, recording, and
// conversation services.
package service

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest marks missing or malformed input. Handlers map it to 400.
var ErrInvalidRequest = errors.New("invalid request")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// Upstream names used in logs and metrics.
const (
	UpstreamRetrieval   = "retrieval"
	UpstreamGeneration  = "generation"
	UpstreamPersistence = "persistence"
)

// UpstreamError records which upstream call failed. It is absorbed by the
// orchestrator and only reaches logs and diagnostics.
type UpstreamError struct {
	Upstream string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Upstream, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
