package app

import (
	"fmt"

	authService "github.com/allisson/dmvault/internal/auth/service"
	authUseCase "github.com/allisson/dmvault/internal/auth/usecase"
	userHTTP "github.com/allisson/dmvault/internal/user/http"
	userUseCase "github.com/allisson/dmvault/internal/user/usecase"
)

// PasswordService returns the argon2id password hasher.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	var err error
	c.passwordServiceInit.Do(func() {
		c.passwordService, err = authService.NewPasswordService()
		if err != nil {
			c.initErrors["passwordService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["passwordService"]; exists {
		return nil, storedErr
	}
	return c.passwordService, nil
}

// UserUseCase returns the user store.
func (c *Container) UserUseCase() (userUseCase.UserUseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// AuthUseCase returns the caller authentication use case.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	var err error
	c.authUseCaseInit.Do(func() {
		c.authUseCase, err = c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

// UserHandler returns the HTTP handler for user endpoints.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	var err error
	c.userHandlerInit.Do(func() {
		c.userHandler, err = c.initUserHandler()
		if err != nil {
			c.initErrors["userHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userHandler"]; exists {
		return nil, storedErr
	}
	return c.userHandler, nil
}

// initUserUseCase creates the user store with all its dependencies.
func (c *Container) initUserUseCase() (userUseCase.UserUseCase, error) {
	repo, err := c.BlobRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob repository for user use case: %w", err)
	}

	sealer, err := c.BlobSealer()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob sealer for user use case: %w", err)
	}

	passwordService, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for user use case: %w", err)
	}

	baseUseCase, err := userUseCase.NewUserUseCase(repo, sealer, passwordService, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create user use case: %w", err)
	}

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for user use case: %w", err)
		}
		return userUseCase.NewUserUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAuthUseCase creates the authentication use case backed by the user store.
func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	users, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for auth use case: %w", err)
	}

	if c.config.AdminPassword == "" {
		c.Logger().Warn("ADMIN_PASSWORD is empty, the administrator account is disabled")
	}

	baseUseCase := authUseCase.NewAuthUseCase(
		authUseCase.AdminCredentials{
			Login:    c.config.AdminLogin,
			Password: c.config.AdminPassword,
		},
		users,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
		}
		return authUseCase.NewAuthUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initUserHandler creates the user HTTP handler.
func (c *Container) initUserHandler() (*userHTTP.UserHandler, error) {
	users, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for user handler: %w", err)
	}

	return userHTTP.NewUserHandler(users, c.config.AdminLogin, c.Logger()), nil
}
