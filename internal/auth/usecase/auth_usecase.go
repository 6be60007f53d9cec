package usecase

import (
	"context"
	"crypto/subtle"
	"log/slog"

	authDomain "github.com/allisson/dmvault/internal/auth/domain"
)

// AdminCredentials configures the administrator account. An empty Password
// disables it.
type AdminCredentials struct {
	Login    string
	Password string
}

type authUseCase struct {
	admin    AdminCredentials
	verifier UserVerifier
	logger   *slog.Logger
}

// NewAuthUseCase creates an AuthUseCase.
func NewAuthUseCase(admin AdminCredentials, verifier UserVerifier, logger *slog.Logger) AuthUseCase {
	return &authUseCase{
		admin:    admin,
		verifier: verifier,
		logger:   logger,
	}
}

// Authenticate checks the administrator account first. The administrator
// login is reserved: a directory user with the same login cannot sign in.
func (a *authUseCase) Authenticate(
	ctx context.Context,
	login, password string,
) (*authDomain.Principal, error) {
	if login == "" || password == "" {
		return nil, authDomain.ErrInvalidCredentials
	}

	if a.admin.Password != "" && login == a.admin.Login {
		if subtle.ConstantTimeCompare([]byte(password), []byte(a.admin.Password)) != 1 {
			a.logger.Warn("administrator authentication failed")
			return nil, authDomain.ErrInvalidCredentials
		}
		return &authDomain.Principal{
			Login:       a.admin.Login,
			DisplayName: authDomain.AdminDisplayName,
			Admin:       true,
		}, nil
	}

	user, err := a.verifier.Verify(ctx, login, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authDomain.ErrInvalidCredentials
	}

	return &authDomain.Principal{
		Login:       user.Login,
		DisplayName: user.DisplayName,
	}, nil
}
