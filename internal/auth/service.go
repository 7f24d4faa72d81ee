package auth

import (
	"context"
	"errors"
	"fmt"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// CredentialStore is the persistence the auth flows need.
type CredentialStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (core.User, error)
	GetCredentials(ctx context.Context, username string) (core.User, string, error)
	GetPasswordHash(ctx context.Context, userID int64) (string, error)
	UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error
}

type Service struct {
	store  CredentialStore
	hasher PasswordHasher
}

func NewService(store CredentialStore, hasher PasswordHasher) *Service {
	if hasher == nil {
		hasher = LegacySHA256Hasher{}
	}
	return &Service{
		store:  store,
		hasher: hasher,
	}
}

// Register creates a user. A taken username yields core.ErrDuplicateUsername.
func (s *Service) Register(ctx context.Context, username, password string) (core.User, error) {
	logger := log.FromContext(ctx).WithComponent(log.ComponentAuth)

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, username, digest)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateUsername) {
			logger.InfoContext(ctx, "Registration rejected: duplicate username",
				log.FieldOperation, log.OpRegister, log.FieldUsername, username)
			return core.User{}, err
		}
		return core.User{}, fmt.Errorf("register user: %w", err)
	}

	logger.InfoContext(ctx, "User registered",
		log.FieldOperation, log.OpRegister, log.FieldUserID, user.ID, log.FieldUsername, username)
	return user, nil
}

// Login checks the credentials and opens a session. Unknown usernames and
// wrong passwords both yield core.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	logger := log.FromContext(ctx).WithComponent(log.ComponentAuth)

	user, digest, err := s.store.GetCredentials(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		logger.InfoContext(ctx, "Login failed", log.FieldOperation, log.OpLogin)
		return nil, core.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if !s.hasher.Verify(digest, password) {
		logger.InfoContext(ctx, "Login failed", log.FieldOperation, log.OpLogin)
		return nil, core.ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(digest) {
		s.rehash(ctx, logger, user.ID, password)
	}

	session := newSession(user)
	logger.InfoContext(ctx, "Login successful",
		log.FieldOperation, log.OpLogin,
		log.FieldUserID, user.ID,
		log.FieldSessionID, session.ID.String())
	return session, nil
}

// rehash upgrades a stored digest. Failure only costs the upgrade.
func (s *Service) rehash(ctx context.Context, logger *log.Logger, userID int64, password string) {
	digest, err := s.hasher.Hash(password)
	if err == nil {
		err = s.store.UpdatePasswordHash(ctx, userID, digest)
	}
	if err != nil {
		logger.WarnContext(ctx, "Password rehash failed", log.FieldUserID, userID, log.FieldError, err)
		return
	}
	logger.InfoContext(ctx, "Password digest upgraded", log.FieldUserID, userID)
}

// VerifyPassword reports whether password matches the stored digest of userID.
func (s *Service) VerifyPassword(ctx context.Context, userID int64, password string) (bool, error) {
	digest, err := s.store.GetPasswordHash(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("look up password: %w", err)
	}
	return s.hasher.Verify(digest, password), nil
}

// ChangePassword replaces the user's password once currentPassword has been
// verified against the stored digest. A mismatch yields
// core.ErrInvalidCredentials and leaves the stored digest unchanged.
func (s *Service) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	logger := log.FromContext(ctx).WithComponent(log.ComponentAuth)

	digest, err := s.store.GetPasswordHash(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return core.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("look up password: %w", err)
	}

	if !s.hasher.Verify(digest, currentPassword) {
		logger.InfoContext(ctx, "Password change rejected",
			log.FieldOperation, log.OpChangePassword, log.FieldUserID, userID)
		return core.ErrInvalidCredentials
	}

	newDigest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePasswordHash(ctx, userID, newDigest); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	logger.InfoContext(ctx, "Password changed",
		log.FieldOperation, log.OpChangePassword, log.FieldUserID, userID)
	return nil
}
