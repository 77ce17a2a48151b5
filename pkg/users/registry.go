package users

import (
	"context"
	"errors"
	"regexp"
	"strconv"

	"github.com/dmitrymomot/anvil/pkg/audit"
	"github.com/dmitrymomot/anvil/pkg/sanitizer"
)

// minPasswordLength is the floor for user-chosen passwords.
const minPasswordLength = 8

// CreateInput describes a new account. An empty Password leaves the
// account without one; such accounts can only enter through a one-time
// password.
type CreateInput struct {
	Email    string
	Name     string
	Password string
	// IssueOnetime generates a one-time password returned by Create,
	// typically mailed as a confirmation link.
	IssueOnetime bool
}

// Create registers an account and returns its ID, plus the one-time
// token when requested. Inputs are sanitized before storage; a taken
// address returns ErrEmailTaken.
func (s *Service) Create(ctx context.Context, in CreateInput) (int64, string, error) {
	email := sanitizer.CleanEmail(in.Email)
	if email == "" {
		return 0, "", ErrInvalidEmail
	}

	acc := Account{
		User:         User{Email: email, Name: sanitizer.CleanName(in.Name), Active: true},
		PasswordHash: noPassword,
		OnetimeHash:  noPassword,
	}
	if in.Password != "" {
		if len(in.Password) < minPasswordLength {
			return 0, "", ErrWeakPassword
		}
		hash, err := hashPassword(in.Password)
		if err != nil {
			return 0, "", err
		}
		acc.PasswordHash = hash
	}

	var onetime string
	if in.IssueOnetime {
		token, hash, err := newOnetime()
		if err != nil {
			return 0, "", err
		}
		onetime = token
		acc.OnetimeHash = hash
	}

	id, err := s.store.Create(ctx, acc)
	if err != nil {
		return 0, "", err
	}

	if s.memberships != nil {
		if err := s.memberships.AddMembership(ctx, id, "member"); err != nil {
			return 0, "", err
		}
	}
	s.record(ctx, audit.Entry{
		UserID:     id,
		ObjectType: "user",
		ObjectID:   &id,
		Action:     "created",
		NewValue:   email,
	})
	return id, onetime, nil
}

// UpdateInput lists the account fields an update may touch. Nil
// pointers leave the field alone.
type UpdateInput struct {
	Email *string
	Name  *string

	// NewPassword and NewPasswordConfirm change the password when both
	// are set. They must match and meet the length floor.
	NewPassword        string
	NewPasswordConfirm string

	// IssueOnetime generates a fresh one-time password, returned by
	// Update.
	IssueOnetime bool
}

// Update applies the changes and returns the new one-time token when
// one was requested. A password mismatch or short password fails the
// whole update rather than silently skipping the password change.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (string, error) {
	var changes Changes
	if in.Email != nil {
		cleaned := sanitizer.CleanEmail(*in.Email)
		if cleaned == "" {
			return "", ErrInvalidEmail
		}
		changes.Email = &cleaned
	}
	if in.Name != nil {
		cleaned := sanitizer.CleanName(*in.Name)
		changes.Name = &cleaned
	}

	if in.NewPassword != "" || in.NewPasswordConfirm != "" {
		if in.NewPassword != in.NewPasswordConfirm {
			return "", ErrPasswordMismatch
		}
		if len(in.NewPassword) < minPasswordLength {
			return "", ErrWeakPassword
		}
		hash, err := hashPassword(in.NewPassword)
		if err != nil {
			return "", err
		}
		changes.PasswordHash = &hash
	}

	var onetime string
	if in.IssueOnetime {
		token, hash, err := newOnetime()
		if err != nil {
			return "", err
		}
		onetime = token
		changes.OnetimeHash = &hash
	}

	var before Account
	if s.trail != nil && (changes.Email != nil || changes.Name != nil) {
		if acc, err := s.store.ByID(ctx, id); err == nil {
			before = acc
		}
	}

	if err := s.store.Update(ctx, id, changes); err != nil {
		return "", err
	}
	s.invalidate(ctx, id)

	if changes.Email != nil && *changes.Email != before.Email {
		s.record(ctx, audit.Entry{
			UserID: id, ObjectType: "user", ObjectID: &id,
			Action: "modified", FieldName: "email",
			OldValue: before.Email, NewValue: *changes.Email,
		})
	}
	if changes.Name != nil && *changes.Name != before.Name {
		s.record(ctx, audit.Entry{
			UserID: id, ObjectType: "user", ObjectID: &id,
			Action: "modified", FieldName: "name",
			OldValue: before.Name, NewValue: *changes.Name,
		})
	}
	if changes.PasswordHash != nil {
		// Hashes stay out of the trail.
		s.record(ctx, audit.Entry{
			UserID: id, ObjectType: "user", ObjectID: &id,
			Action: "modified", FieldName: "password",
		})
	}
	return onetime, nil
}

// record writes an audit entry. Failures are logged, not returned.
func (s *Service) record(ctx context.Context, e audit.Entry) {
	if s.trail == nil {
		return
	}
	if err := s.trail.Log(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "audit entry failed",
			"action", e.Action,
			"user_id", e.UserID,
			"error", err,
		)
	}
}

var emailLikeRe = regexp.MustCompile(`^[^@ ]+@[^@ .]+\.[^@ ]+$`)

// CleanList resolves a mixed list of user IDs and e-mail addresses into
// IDs. Numeric items must name an existing active account or they are
// dropped; addresses of existing accounts resolve to their ID; unknown
// addresses create a fresh account, with extra fields taken from the
// extras map when present. Anything else is dropped.
func (s *Service) CleanList(ctx context.Context, items []string, extras map[string]CreateInput) ([]int64, error) {
	var out []int64
	for _, item := range items {
		if id, err := strconv.ParseInt(item, 10, 64); err == nil {
			acc, err := s.store.ByID(ctx, id)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return nil, err
			}
			if acc.Active {
				out = append(out, acc.ID)
			}
			continue
		}

		email := sanitizer.CleanEmail(item)
		acc, err := s.store.ByEmail(ctx, email)
		if err == nil {
			out = append(out, acc.ID)
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if !emailLikeRe.MatchString(email) {
			continue
		}

		in := extras[email]
		in.Email = email
		id, _, err := s.Create(ctx, in)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
