package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-tutor-be/internal/apperrors"
)

type scriptedProvider struct {
	attempts int
	failures int           // fail this many calls before succeeding
	hang     time.Duration // block this long before answering
	reply    string
}

func (s *scriptedProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	s.attempts++
	if s.hang > 0 {
		select {
		case <-time.After(s.hang):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.attempts <= s.failures {
		return "", errors.New("upstream hiccup")
	}
	return s.reply, nil
}

func (s *scriptedProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return s.Chat(ctx, []Message{{Role: "user", Content: prompt}}, options...)
}

func TestCallerSuccessFirstTry(t *testing.T) {
	p := &scriptedProvider{reply: "hi"}
	c := NewCaller(p, time.Second, 3)

	out, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hello"}})

	require.NoError(t, err)
	assert.Equal(t, "hi", out)
	assert.Equal(t, 1, p.attempts)
}

func TestCallerRetriesTransientFailure(t *testing.T) {
	p := &scriptedProvider{failures: 1, reply: "recovered"}
	c := NewCaller(p, time.Second, 3)

	out, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hello"}})

	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Equal(t, 2, p.attempts)
}

func TestCallerExhaustsRetries(t *testing.T) {
	p := &scriptedProvider{failures: 10}
	c := NewCaller(p, time.Second, 2)

	_, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hello"}})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
	assert.Equal(t, 2, p.attempts)
}

func TestCallerTimeoutIsNotRetried(t *testing.T) {
	p := &scriptedProvider{hang: time.Second, reply: "too late"}
	c := NewCaller(p, 20*time.Millisecond, 3)

	_, err := c.Generate(context.Background(), "hello")

	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstreamTimeout, apperrors.KindOf(err))
	assert.Equal(t, 1, p.attempts)
}

func TestCallerStopsWhenParentCancelled(t *testing.T) {
	p := &scriptedProvider{hang: time.Second, reply: "too late"}
	c := NewCaller(p, 10*time.Second, 3)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, "hello")

	require.Error(t, err)
	assert.Equal(t, 1, p.attempts)
}
