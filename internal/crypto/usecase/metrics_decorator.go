package usecase

import (
	"context"
	"time"

	"github.com/allisson/dmvault/internal/metrics"
)

// conversationKeyUseCaseWithMetrics decorates ConversationKeyUseCase with metrics instrumentation.
type conversationKeyUseCaseWithMetrics struct {
	next    ConversationKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewConversationKeyUseCaseWithMetrics wraps a ConversationKeyUseCase with metrics recording.
func NewConversationKeyUseCaseWithMetrics(
	useCase ConversationKeyUseCase,
	m metrics.BusinessMetrics,
) ConversationKeyUseCase {
	return &conversationKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// GetOrCreateKey records metrics for conversation key lookups.
func (c *conversationKeyUseCaseWithMetrics) GetOrCreateKey(
	ctx context.Context,
	conversationID string,
) ([]byte, error) {
	start := time.Now()
	key, err := c.next.GetOrCreateKey(ctx, conversationID)
	c.record(ctx, "conversation_key_get", start, err)
	return key, err
}

// Count records metrics for conversation key counting.
func (c *conversationKeyUseCaseWithMetrics) Count(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := c.next.Count(ctx)
	c.record(ctx, "conversation_key_count", start, err)
	return n, err
}

func (c *conversationKeyUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	c.metrics.RecordOperation(ctx, "crypto", operation, status)
	c.metrics.RecordDuration(ctx, "crypto", operation, time.Since(start), status)
}
