package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// CreateUser inserts a user row. A taken username yields
// core.ErrDuplicateUsername.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (core.User, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		s.db.Rebind(`INSERT INTO users (username, password) VALUES (?, ?) RETURNING user_id`),
		username, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, core.ErrDuplicateUsername
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}

	s.logger.DebugContext(ctx, "User created", log.FieldUserID, id, log.FieldUsername, username)
	return core.User{ID: id, Username: username}, nil
}

type credentialRow struct {
	ID       int64  `db:"user_id"`
	Username string `db:"username"`
	Password string `db:"password"`
}

// GetCredentials returns the user and stored password digest for username.
func (s *Store) GetCredentials(ctx context.Context, username string) (core.User, string, error) {
	var row credentialRow
	err := s.db.GetContext(ctx, &row,
		s.db.Rebind(`SELECT user_id, username, password FROM users WHERE username = ?`),
		username)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, "", ErrNotFound
	}
	if err != nil {
		return core.User{}, "", fmt.Errorf("select user by username: %w", err)
	}
	return core.User{ID: row.ID, Username: row.Username}, row.Password, nil
}

// GetPasswordHash returns the stored digest for userID.
func (s *Store) GetPasswordHash(ctx context.Context, userID int64) (string, error) {
	var hash string
	err := s.db.GetContext(ctx, &hash,
		s.db.Rebind(`SELECT password FROM users WHERE user_id = ?`),
		userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select password hash: %w", err)
	}
	return hash, nil
}

// UpdatePasswordHash overwrites the stored digest for userID.
func (s *Store) UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind(`UPDATE users SET password = ? WHERE user_id = ?`),
		passwordHash, userID)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
