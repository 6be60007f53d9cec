package usecase

import (
	"context"
	"time"

	messagingDomain "github.com/allisson/dmvault/internal/messaging/domain"
	"github.com/allisson/dmvault/internal/metrics"
)

// messageUseCaseWithMetrics decorates MessageUseCase with metrics instrumentation.
type messageUseCaseWithMetrics struct {
	next    MessageUseCase
	metrics metrics.BusinessMetrics
}

// NewMessageUseCaseWithMetrics wraps a MessageUseCase with metrics recording.
func NewMessageUseCaseWithMetrics(useCase MessageUseCase, m metrics.BusinessMetrics) MessageUseCase {
	return &messageUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Append records metrics for message append operations.
func (m *messageUseCaseWithMetrics) Append(
	ctx context.Context,
	from, to, text string,
) (*messagingDomain.Message, error) {
	start := time.Now()
	msg, err := m.next.Append(ctx, from, to, text)
	m.record(ctx, "message_append", start, err)
	return msg, err
}

// ReadConversation records metrics for conversation reads.
func (m *messageUseCaseWithMetrics) ReadConversation(
	ctx context.Context,
	a, b string,
) ([]*messagingDomain.Message, error) {
	start := time.Now()
	messages, err := m.next.ReadConversation(ctx, a, b)
	m.record(ctx, "conversation_read", start, err)
	return messages, err
}

// DialogsFor records metrics for dialog list derivation.
func (m *messageUseCaseWithMetrics) DialogsFor(
	ctx context.Context,
	login string,
) ([]messagingDomain.DialogSummary, error) {
	start := time.Now()
	dialogs, err := m.next.DialogsFor(ctx, login)
	m.record(ctx, "dialogs_list", start, err)
	return dialogs, err
}

// Stats records metrics for message log statistics.
func (m *messageUseCaseWithMetrics) Stats(ctx context.Context) (messagingDomain.LogStats, error) {
	start := time.Now()
	stats, err := m.next.Stats(ctx)
	m.record(ctx, "log_stats", start, err)
	return stats, err
}

func (m *messageUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	m.metrics.RecordOperation(ctx, "messaging", operation, status)
	m.metrics.RecordDuration(ctx, "messaging", operation, time.Since(start), status)
}
