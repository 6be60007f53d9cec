package usecase

import (
	"context"
	"time"

	"github.com/allisson/dmvault/internal/metrics"
	userDomain "github.com/allisson/dmvault/internal/user/domain"
)

// userUseCaseWithMetrics decorates UserUseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UserUseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UserUseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UserUseCase, m metrics.BusinessMetrics) UserUseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// List records metrics for user listing.
func (u *userUseCaseWithMetrics) List(ctx context.Context) ([]userDomain.UserSummary, error) {
	start := time.Now()
	users, err := u.next.List(ctx)
	u.record(ctx, "user_list", start, err)
	return users, err
}

// Find records metrics for user lookups.
func (u *userUseCaseWithMetrics) Find(ctx context.Context, login string) (*userDomain.User, error) {
	start := time.Now()
	user, err := u.next.Find(ctx, login)
	u.record(ctx, "user_find", start, err)
	return user, err
}

// Create records metrics for user creation.
func (u *userUseCaseWithMetrics) Create(
	ctx context.Context,
	login, password, displayName string,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := u.next.Create(ctx, login, password, displayName)
	u.record(ctx, "user_create", start, err)
	return user, err
}

// Update records metrics for user updates.
func (u *userUseCaseWithMetrics) Update(
	ctx context.Context,
	login string,
	input userDomain.UpdateUserInput,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := u.next.Update(ctx, login, input)
	u.record(ctx, "user_update", start, err)
	return user, err
}

// Delete records metrics for user deletion.
func (u *userUseCaseWithMetrics) Delete(ctx context.Context, login string) error {
	start := time.Now()
	err := u.next.Delete(ctx, login)
	u.record(ctx, "user_delete", start, err)
	return err
}

// Verify records metrics for credential checks. A rejected password counts
// as "rejected" rather than "error".
func (u *userUseCaseWithMetrics) Verify(ctx context.Context, login, password string) (*userDomain.User, error) {
	start := time.Now()
	user, err := u.next.Verify(ctx, login, password)

	status := metrics.StatusSuccess
	switch {
	case err != nil:
		status = metrics.StatusError
	case user == nil:
		status = metrics.StatusRejected
	}

	u.metrics.RecordOperation(ctx, "users", "user_verify", status)
	u.metrics.RecordDuration(ctx, "users", "user_verify", time.Since(start), status)

	return user, err
}

func (u *userUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	u.metrics.RecordOperation(ctx, "users", operation, status)
	u.metrics.RecordDuration(ctx, "users", operation, time.Since(start), status)
}
