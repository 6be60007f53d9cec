package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	userDTO "github.com/allisson/dmvault/internal/user/http/dto"
	userUseCase "github.com/allisson/dmvault/internal/user/usecase"
)

// CreateUserInput holds the create-user flags.
type CreateUserInput struct {
	Login       string
	Password    string
	DisplayName string
	// AdminLogin is reserved for the configured administrator.
	AdminLogin string
}

// RunCreateUser adds an account to the user directory. When Password is empty
// it is read from the first line of io.Reader. The same validation rules as
// the admin API apply.
//
// Requirements: MASTER_SECRET (or its KMS ciphertext) must be configured.
func RunCreateUser(
	ctx context.Context,
	users userUseCase.UserUseCase,
	logger *slog.Logger,
	input CreateUserInput,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if input.AdminLogin != "" && input.Login == input.AdminLogin {
		return fmt.Errorf("login %q is reserved for the administrator", input.Login)
	}

	password := input.Password
	if password == "" {
		var err error
		password, err = promptForPassword(io)
		if err != nil {
			return err
		}
	}

	req := userDTO.CreateUserRequest{
		Login:       input.Login,
		Password:    password,
		DisplayName: input.DisplayName,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	logger.Info("creating new user", slog.String("login", req.Login))

	user, err := users.Create(ctx, req.Login, req.Password, req.DisplayName)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == formatJSON {
		if err := writeJSON(io.Writer, map[string]string{
			"login":       user.Login,
			"displayName": user.DisplayName,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(io.Writer, "User created successfully!")
		_, _ = fmt.Fprintf(io.Writer, "Login: %s\n", user.Login)
		_, _ = fmt.Fprintf(io.Writer, "Display name: %s\n", user.DisplayName)
	}

	logger.Info("user created successfully", slog.String("login", user.Login))
	return nil
}

// promptForPassword reads a password from the first line of io.Reader.
func promptForPassword(io IOTuple) (string, error) {
	_, _ = fmt.Fprint(io.Writer, "Enter password: ")

	line, err := bufio.NewReader(io.Reader).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	_, _ = fmt.Fprintln(io.Writer)
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}
