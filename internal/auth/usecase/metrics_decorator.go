package usecase

import (
	"context"
	"errors"
	"time"

	authDomain "github.com/allisson/dmvault/internal/auth/domain"
	"github.com/allisson/dmvault/internal/metrics"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Authenticate records metrics for authentication attempts.
func (a *authUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	login, password string,
) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := a.next.Authenticate(ctx, login, password)

	status := metrics.StatusSuccess
	switch {
	case errors.Is(err, authDomain.ErrInvalidCredentials):
		status = metrics.StatusRejected
	case err != nil:
		status = metrics.StatusError
	}

	a.metrics.RecordOperation(ctx, "auth", "authenticate", status)
	a.metrics.RecordDuration(ctx, "auth", "authenticate", time.Since(start), status)

	return principal, err
}
