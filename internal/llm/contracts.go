package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
)

// Prompt is one system+user message pair sent to the text-generation service.
type Prompt struct {
	System   string
	User     string
	JSONMode bool // ask the provider for a bare JSON object reply
}

// Generator performs a single text-generation request. It does not retry.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// Caller issues one logical upstream request under a per-attempt timeout.
// *Resilient is the production implementation.
type Caller interface {
	Call(ctx context.Context, p Prompt, timeout time.Duration) (string, error)
}

// StatusError is a provider failure that carried an HTTP status.
type StatusError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("upstream status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Transient reports a rate-limit or service-unavailable signal.
func (e *StatusError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusServiceUnavailable
}

// UpstreamError is the terminal outcome of a logical upstream call.
type UpstreamError struct {
	StatusCode int // 0 when the failure carried no status
	Attempts   int
	Timeout    bool
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("upstream call timed out after %d attempt(s): %v", e.Attempts, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("upstream call failed after %d attempt(s) with status %d: %v", e.Attempts, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("upstream call failed after %d attempt(s): %v", e.Attempts, e.Err)
	}
}

func (e *UpstreamError) Unwrap() []error {
	if e.Timeout {
		return []error{e.Err, common.ErrUpstream, common.ErrUpstreamTimeout}
	}
	return []error{e.Err, common.ErrUpstream}
}

// Detail returns the provider's own message for the caller.
func (e *UpstreamError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
