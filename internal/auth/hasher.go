// Package auth implements the credential store and the registration,
// login and password change flows.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"expensetracker/internal/config"
)

// PasswordHasher turns passwords into stored digests and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(digest, password string) bool
	// NeedsRehash reports whether digest should be replaced by a fresh
	// Hash after a successful Verify.
	NeedsRehash(digest string) bool
}

// NewHasher returns the hasher for a PASSWORD_SCHEME value.
func NewHasher(scheme string) (PasswordHasher, error) {
	switch scheme {
	case config.SchemeLegacySHA256, "":
		return LegacySHA256Hasher{}, nil
	case config.SchemeBcrypt:
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme: %s", scheme)
	}
}

// LegacySHA256Hasher stores the unsalted hex SHA-256 of the password.
//
// Identical passwords produce identical digests across users. It exists
// so databases written by earlier versions keep working; new deployments
// should select bcrypt.
type LegacySHA256Hasher struct{}

func (LegacySHA256Hasher) Hash(password string) (string, error) {
	return LegacySHA256Digest(password), nil
}

func (LegacySHA256Hasher) Verify(digest, password string) bool {
	want := LegacySHA256Digest(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(want)) == 1
}

func (LegacySHA256Hasher) NeedsRehash(string) bool {
	return false
}

// LegacySHA256Digest is the 64 character lowercase hex SHA-256 of password.
func LegacySHA256Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// BcryptHasher stores salted bcrypt hashes. It still accepts legacy
// SHA-256 digests so that existing users can log in and be upgraded.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(b), nil
}

func (h BcryptHasher) Verify(digest, password string) bool {
	if !isBcrypt(digest) {
		return LegacySHA256Hasher{}.Verify(digest, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

func (h BcryptHasher) NeedsRehash(digest string) bool {
	if !isBcrypt(digest) {
		return true
	}
	cost, err := bcrypt.Cost([]byte(digest))
	return err != nil || cost != h.cost()
}

func (h BcryptHasher) cost() int {
	if h.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return h.Cost
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") || strings.HasPrefix(digest, "$2b$") || strings.HasPrefix(digest, "$2y$")
}
