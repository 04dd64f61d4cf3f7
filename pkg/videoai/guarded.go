package videoai

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// GuardedModel wraps a provider client with the circuit breaker, error
// classification and call logging.
type GuardedModel struct {
	inner   VideoModel
	breaker *CircuitBreaker
	logger  *zap.Logger
}

var _ VideoModel = (*GuardedModel)(nil)

// NewGuardedModel wraps inner. A nil breaker uses the default configuration.
func NewGuardedModel(inner VideoModel, breaker *CircuitBreaker, logger *zap.Logger) *GuardedModel {
	if breaker == nil {
		breaker = NewCircuitBreaker(DefaultCircuitBreakerConfig())
	}
	return &GuardedModel{
		inner:   inner,
		breaker: breaker,
		logger:  logger.Named("video-model"),
	}
}

// Analyze implements VideoModel.
func (g *GuardedModel) Analyze(ctx context.Context, req *Request) (string, error) {
	if ok, err := g.breaker.Allow(); !ok {
		return "", NewError(ErrorTypeEndpoint, "video model unavailable", false, err)
	}

	frames := 0
	if req.Video != nil {
		frames = len(req.Video.Frames)
	}
	start := time.Now()
	text, err := g.inner.Analyze(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		classified := ClassifyError(err, 0)
		classified.Model = g.inner.Model()
		// Caller cancellation says nothing about provider health.
		if !errors.Is(err, context.Canceled) {
			g.breaker.RecordFailure()
		}
		g.logger.Warn("Video model call failed",
			zap.String("model", g.inner.Model()),
			zap.String("error_type", string(classified.Type)),
			zap.Bool("retryable", classified.Retryable),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return "", classified
	}

	if strings.TrimSpace(text) == "" {
		g.breaker.RecordFailure()
		return "", &Error{Type: ErrorTypeResponse, Message: "empty response", Model: g.inner.Model()}
	}

	g.breaker.RecordSuccess()
	g.logger.Debug("Video model call completed",
		zap.String("model", g.inner.Model()),
		zap.Int("frames", frames),
		zap.Int("prompt_len", len(req.Prompt)),
		zap.Int("response_len", len(text)),
		zap.Duration("elapsed", elapsed))
	return text, nil
}

// Model implements VideoModel.
func (g *GuardedModel) Model() string {
	return g.inner.Model()
}

// Breaker exposes the circuit breaker for health reporting.
func (g *GuardedModel) Breaker() *CircuitBreaker {
	return g.breaker
}
