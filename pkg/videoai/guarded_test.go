package videoai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGuardedModel_OpensAfterFailures(t *testing.T) {
	mock := NewMockVideoModel()
	mock.AnalyzeFunc = func(context.Context, *Request) (string, error) {
		return "", errors.New("503 service unavailable")
	}
	breaker := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 2, ResetAfter: time.Hour})
	g := NewGuardedModel(mock, breaker, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := g.Analyze(context.Background(), &Request{Prompt: "p"})
		require.Error(t, err)
		assert.True(t, IsRetryable(err))
	}
	assert.Equal(t, CircuitOpen, breaker.State())

	_, err := g.Analyze(context.Background(), &Request{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, 2, mock.Calls(), "open circuit must not reach the provider")
}

func TestGuardedModel_EmptyResponseIsAnError(t *testing.T) {
	mock := NewMockVideoModel()
	mock.Response = "  \n"
	g := NewGuardedModel(mock, nil, zap.NewNop())

	_, err := g.Analyze(context.Background(), &Request{})
	assert.Equal(t, ErrorTypeResponse, GetErrorType(err))
}

func TestGuardedModel_CancellationDoesNotTrip(t *testing.T) {
	mock := NewMockVideoModel()
	mock.AnalyzeFunc = func(ctx context.Context, _ *Request) (string, error) {
		return "", context.Canceled
	}
	breaker := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 1, ResetAfter: time.Hour})
	g := NewGuardedModel(mock, breaker, zap.NewNop())

	_, err := g.Analyze(context.Background(), &Request{})
	require.Error(t, err)
	assert.Equal(t, CircuitClosed, breaker.State())
}
