package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/tinysteps/internal/logger"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMockProvider(MockText(`{"ok":true}`, 1))
	p := WithRetry(mock, retryConfig(), nil)

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Text())
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_TransientThenSuccessLogsWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	mock := NewMockProvider(down(), MockText(`{"ok":true}`, 1))
	p := WithRetry(mock, retryConfig(), logger.FromZap(zap.New(core)))

	resp, err := p.Generate(WithPurpose(context.Background(), "homework_grading"), Request{})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Text())
	assert.Equal(t, 2, mock.CallCount())

	entries := logs.FilterMessage("retrying completion request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "homework_grading", entries[0].ContextMap()["purpose"])
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	mock := NewMockProvider(down(), down(), down())
	p := WithRetry(mock, retryConfig(), nil)

	_, err := p.Generate(context.Background(), Request{})

	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_SingleAttemptDisablesRetry(t *testing.T) {
	mock := NewMockProvider(down(), MockText(`{}`, 1))
	cfg := retryConfig()
	cfg.MaxAttempts = 1

	p := WithRetry(mock, cfg, nil)
	assert.Same(t, mock, p)

	_, err := p.Generate(context.Background(), Request{})
	assert.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_TerminalErrorsNotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"max tokens", &ErrMaxTokensExceeded{Content: json.RawMessage(`{`)}},
		{"authentication", &ErrAuthentication{Err: errors.New("401")}},
		{"canceled", context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: tt.err}, MockText(`{}`, 1))
			p := WithRetry(mock, retryConfig(), nil)

			_, err := p.Generate(context.Background(), Request{})
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, mock.CallCount())
		})
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	bad := MockResponse{Err: &ErrInvalidResponse{Reason: ReasonMalformed, Content: json.RawMessage(`bad`), Err: errors.New("bad")}}
	mock := NewMockProvider(bad, bad, MockText(`{"ok":true}`, 1))
	p := WithRetry(mock, retryConfig(), nil)

	_, err := p.Generate(context.Background(), Request{})

	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, ReasonMalformed, inv.Reason)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(down(), down(), MockText(`{"ok":true}`, 1))
	cfg := retryConfig()
	cfg.InitialWait = time.Second
	cfg.MaxWait = time.Second
	p := WithRetry(mock, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_RateLimitRespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
		MockText(`{"ok":true}`, 1),
	)
	p := WithRetry(mock, retryConfig(), nil)

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Text())
	assert.Equal(t, 2, mock.CallCount())
}

func TestTimeout_BoundsRequest(t *testing.T) {
	slow := NewMockHandlerProvider(func(Request) MockResponse { return MockText(`{}`, 1) })
	assert.Same(t, slow, WithTimeout(slow, 0))

	p := WithTimeout(slow, time.Second)
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}
