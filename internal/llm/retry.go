package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/common"
)

// Policy is the attempt budget of one logical upstream call.
type Policy struct {
	MaxAttempts int
	RetryDelay  time.Duration
}

// DefaultPolicy allows one retry after a rate-limit or unavailable signal.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: constants.MaxUpstreamAttempts,
		RetryDelay:  constants.UpstreamRetryDelay,
	}
}

// CallObserver receives one event per attempt; implemented by observability.Metrics.
type CallObserver interface {
	ObserveUpstreamAttempt(outcome string)
	ObserveUpstreamRetry()
}

// Attempt outcomes passed to CallObserver.
const (
	AttemptOK        = "ok"
	AttemptTransient = "transient"
	AttemptTimeout   = "timeout"
	AttemptFailed    = "failed"
)

// Resilient wraps a Generator with the bounded retry policy.
type Resilient struct {
	gen      Generator
	policy   Policy
	logger   *slog.Logger
	observer CallObserver
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option customizes a Resilient client.
type Option func(*Resilient)

// WithObserver reports attempts to o.
func WithObserver(o CallObserver) Option {
	return func(r *Resilient) { r.observer = o }
}

// WithSleep replaces the retry wait, for tests.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Resilient) { r.sleep = fn }
}

func NewResilient(gen Generator, policy Policy, logger *slog.Logger, opts ...Option) *Resilient {
	if logger == nil {
		logger = slog.Default()
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	r := &Resilient{gen: gen, policy: policy, logger: logger, sleep: sleepCtx}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Call issues one logical request. Only a rate-limit/unavailable failure on a
// non-final attempt is retried; everything else is returned as *UpstreamError.
func (r *Resilient) Call(ctx context.Context, p Prompt, timeout time.Duration) (string, error) {
	logger := common.LoggerFromContext(ctx, r.logger)
	budget := r.policy.MaxAttempts
	start := time.Now()

	for attempt := 1; ; attempt++ {
		text, err := r.attempt(ctx, p, timeout)
		if err == nil {
			r.observe(AttemptOK)
			logger.Debug("llm.call.ok", "attempt", attempt, "elapsed_ms", time.Since(start).Milliseconds())
			return text, nil
		}

		uerr := classify(err, attempt)
		switch {
		case uerr.Timeout:
			r.observe(AttemptTimeout)
		case isTransient(err):
			r.observe(AttemptTransient)
		default:
			r.observe(AttemptFailed)
		}
		logger.Warn("llm.call.attempt_failed",
			"attempt", attempt, "status", uerr.StatusCode, "timeout", uerr.Timeout, "error", err)

		if uerr.Timeout || !isTransient(err) || attempt >= budget || ctx.Err() != nil {
			logger.Error("llm.call.failed",
				"attempts", attempt, "status", uerr.StatusCode,
				"elapsed_ms", time.Since(start).Milliseconds(), "error", err)
			return "", uerr
		}

		if r.observer != nil {
			r.observer.ObserveUpstreamRetry()
		}
		logger.Info("llm.call.retry", "attempt", attempt+1, "delay_ms", r.policy.RetryDelay.Milliseconds())
		if serr := r.sleep(ctx, r.policy.RetryDelay); serr != nil {
			werr := classify(serr, attempt)
			werr.StatusCode = uerr.StatusCode
			return "", werr
		}
	}
}

func (r *Resilient) attempt(ctx context.Context, p Prompt, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		return r.gen.Generate(ctx, p)
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	text, err := r.gen.Generate(actx, p)
	if err != nil && actx.Err() == context.DeadlineExceeded && !errors.Is(err, context.DeadlineExceeded) {
		err = errors.Join(err, context.DeadlineExceeded)
	}
	return text, err
}

func (r *Resilient) observe(outcome string) {
	if r.observer != nil {
		r.observer.ObserveUpstreamAttempt(outcome)
	}
}

func classify(err error, attempts int) *UpstreamError {
	uerr := &UpstreamError{Attempts: attempts, Err: err}
	var serr *StatusError
	if errors.As(err, &serr) {
		uerr.StatusCode = serr.StatusCode
	}
	if errors.Is(err, context.DeadlineExceeded) {
		uerr.Timeout = true
	}
	return uerr
}

func isTransient(err error) bool {
	var serr *StatusError
	return errors.As(err, &serr) && serr.Transient()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
