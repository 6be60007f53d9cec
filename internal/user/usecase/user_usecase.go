package usecase

import (
	"context"
	"log/slog"
	"sort"

	authService "github.com/allisson/dmvault/internal/auth/service"
	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
	cryptoService "github.com/allisson/dmvault/internal/crypto/service"
	cryptoUseCase "github.com/allisson/dmvault/internal/crypto/usecase"
	storageDomain "github.com/allisson/dmvault/internal/storage/domain"
	userDomain "github.com/allisson/dmvault/internal/user/domain"
)

// userRecord is the persisted form of a directory entry.
type userRecord struct {
	PasswordHash string `json:"passwordHash"`
	DisplayName  string `json:"displayName"`
}

// directory maps a login to its record.
type directory map[string]userRecord

// dummyPassword is hashed once so Verify spends the same work on unknown logins.
const dummyPassword = "dmvault-timing-equalizer"

// userUseCase implements UserUseCase on a sealed directory document.
type userUseCase struct {
	doc       *cryptoUseCase.SealedDocument[directory]
	passwords authService.PasswordService
	dummyHash string
	logger    *slog.Logger
}

// NewUserUseCase creates a UserUseCase persisting the directory under
// storageDomain.BlobUsers.
//
// The directory is always opened with RecoveryFail: a directory that cannot be
// opened is never replaced, whatever CORRUPT_STORE_POLICY says.
func NewUserUseCase(
	repo BlobRepository,
	sealer cryptoService.BlobSealer,
	passwords authService.PasswordService,
	logger *slog.Logger,
) (UserUseCase, error) {
	dummyHash, err := passwords.HashPassword(dummyPassword)
	if err != nil {
		return nil, err
	}

	return &userUseCase{
		doc: cryptoUseCase.NewSealedDocument[directory](
			repo,
			storageDomain.BlobUsers,
			sealer,
			cryptoDomain.RecoveryFail,
			logger,
		),
		passwords: passwords,
		dummyHash: dummyHash,
		logger:    logger,
	}, nil
}

// List returns all users sorted by login.
func (u *userUseCase) List(ctx context.Context) ([]userDomain.UserSummary, error) {
	dir, err := u.doc.Load(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]userDomain.UserSummary, 0, len(dir))
	for login, rec := range dir {
		users = append(users, userDomain.UserSummary{Login: login, DisplayName: rec.DisplayName})
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Login < users[j].Login
	})

	return users, nil
}

// Find returns the user with login.
func (u *userUseCase) Find(ctx context.Context, login string) (*userDomain.User, error) {
	dir, err := u.doc.Load(ctx)
	if err != nil {
		return nil, err
	}

	rec, ok := dir[login]
	if !ok {
		return nil, userDomain.ErrUserNotFound
	}
	return toUser(login, rec), nil
}

// Create hashes password and adds the user.
//
// The password is hashed before the directory is locked so the slow hash does
// not hold the writer lock.
func (u *userUseCase) Create(
	ctx context.Context,
	login, password, displayName string,
) (*userDomain.User, error) {
	if displayName == "" {
		displayName = login
	}
	if err := userDomain.ValidateLogin(login); err != nil {
		return nil, err
	}
	if err := userDomain.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := userDomain.ValidateDisplayName(displayName); err != nil {
		return nil, err
	}

	hash, err := u.passwords.HashPassword(password)
	if err != nil {
		return nil, err
	}

	rec := userRecord{PasswordHash: hash, DisplayName: displayName}
	err = u.doc.Update(ctx, func(dir directory) (directory, error) {
		if _, exists := dir[login]; exists {
			return nil, userDomain.ErrUserAlreadyExists
		}
		if dir == nil {
			dir = make(directory)
		}
		dir[login] = rec
		return dir, nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("user created", slog.String("login", login))
	return toUser(login, rec), nil
}

// Update changes the supplied fields of login.
func (u *userUseCase) Update(
	ctx context.Context,
	login string,
	input userDomain.UpdateUserInput,
) (*userDomain.User, error) {
	var newHash string
	if input.Password != nil {
		if err := userDomain.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := u.passwords.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		newHash = hash
	}
	if input.DisplayName != nil {
		if err := userDomain.ValidateDisplayName(*input.DisplayName); err != nil {
			return nil, err
		}
	}

	var updated userRecord
	err := u.doc.Update(ctx, func(dir directory) (directory, error) {
		rec, ok := dir[login]
		if !ok {
			return nil, userDomain.ErrUserNotFound
		}
		if input.Password != nil {
			rec.PasswordHash = newHash
		}
		if input.DisplayName != nil {
			rec.DisplayName = *input.DisplayName
		}
		dir[login] = rec
		updated = rec
		return dir, nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("user updated",
		slog.String("login", login),
		slog.Bool("password_changed", input.Password != nil),
		slog.Bool("display_name_changed", input.DisplayName != nil),
	)
	return toUser(login, updated), nil
}

// Delete removes login if present.
func (u *userUseCase) Delete(ctx context.Context, login string) error {
	removed := false
	err := u.doc.Update(ctx, func(dir directory) (directory, error) {
		if _, ok := dir[login]; !ok {
			return nil, storageDomain.ErrSkipWrite
		}
		delete(dir, login)
		removed = true
		return dir, nil
	})
	if err != nil {
		return err
	}

	if removed {
		u.logger.Info("user deleted", slog.String("login", login))
	}
	return nil
}

// Verify checks password against the stored hash of login.
func (u *userUseCase) Verify(ctx context.Context, login, password string) (*userDomain.User, error) {
	dir, err := u.doc.Load(ctx)
	if err != nil {
		return nil, err
	}

	rec, ok := dir[login]
	if !ok {
		u.passwords.ComparePassword(password, u.dummyHash)
		return nil, nil
	}
	if !u.passwords.ComparePassword(password, rec.PasswordHash) {
		return nil, nil
	}
	return toUser(login, rec), nil
}

func toUser(login string, rec userRecord) *userDomain.User {
	return &userDomain.User{
		Login:        login,
		DisplayName:  rec.DisplayName,
		PasswordHash: rec.PasswordHash,
	}
}
