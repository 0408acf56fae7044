package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"ai-tutor-be/internal/apperrors"
)

// Caller wraps a provider with the upstream call policy: every attempt is
// bounded by a timeout, transient failures are retried with exponential
// backoff, and a timed-out attempt is surfaced immediately without retry.
//
// Caller itself satisfies LLMProvider, so it slots in wherever a raw
// provider would.
type Caller struct {
	provider LLMProvider
	timeout  time.Duration
	maxTries uint
}

var _ LLMProvider = &Caller{}

func NewCaller(provider LLMProvider, timeout time.Duration, maxTries uint) *Caller {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if maxTries == 0 {
		maxTries = 1
	}
	return &Caller{
		provider: provider,
		timeout:  timeout,
		maxTries: maxTries,
	}
}

func (c *Caller) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return c.call(ctx, func(attemptCtx context.Context) (string, error) {
		return c.provider.Chat(attemptCtx, history, options...)
	})
}

func (c *Caller) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return c.call(ctx, func(attemptCtx context.Context) (string, error) {
		return c.provider.Generate(attemptCtx, prompt, options...)
	})
}

func (c *Caller) call(ctx context.Context, attempt func(context.Context) (string, error)) (string, error) {
	operation := func() (string, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		out, err := attempt(attemptCtx)
		if err == nil {
			return out, nil
		}

		// The parent context going away is not the provider's fault and
		// not worth retrying either.
		if ctx.Err() != nil {
			return "", backoff.Permanent(err)
		}

		if errors.Is(err, context.DeadlineExceeded) {
			return "", backoff.Permanent(apperrors.Wrap(
				apperrors.KindUpstreamTimeout, "model call exceeded deadline", err))
		}

		return "", apperrors.Wrap(apperrors.KindUpstream, "model call failed", err)
	}

	out, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries),
	)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return "", appErr
		}
		return "", apperrors.Wrap(apperrors.KindUpstream, "model call failed", err)
	}
	return out, nil
}
