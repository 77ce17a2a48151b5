package users

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Authenticate verifies an e-mail/password pair against active
// accounts. The result is ErrInvalidCredentials for a wrong password,
// an unknown address and a deactivated account alike, so responses do
// not reveal which addresses exist.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Account, error) {
	acc, err := s.ByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return Account{}, ErrInvalidCredentials
	}
	return acc, nil
}

// AuthenticateOnetime verifies a one-time password. A successful match
// invalidates the token immediately rather than waiting for its expiry,
// so it works exactly once. Expired tokens fail like wrong ones.
func (s *Service) AuthenticateOnetime(ctx context.Context, email, token string) (Account, error) {
	acc, err := s.ByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}
	if time.Since(acc.OnetimeIssuedAt) > s.onetimeLifetime {
		return Account{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.OnetimeHash), []byte(token)) != nil {
		return Account{}, ErrInvalidCredentials
	}
	if err := s.store.ClearOnetime(ctx, acc.ID); err != nil {
		return Account{}, err
	}
	return acc, nil
}

// newOnetime returns a fresh token and its hash for storage.
func newOnetime() (token, hash string, err error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(buf)
	h, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return token, string(h), nil
}

func hashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
