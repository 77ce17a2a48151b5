package users

import "context"

// Changes carries a partial account update; nil fields are untouched.
// Setting OnetimeHash also resets the issuance timestamp.
type Changes struct {
	Email        *string
	Name         *string
	PasswordHash *string
	OnetimeHash  *string
}

// IsEmpty reports whether the update would touch nothing.
func (c Changes) IsEmpty() bool {
	return c.Email == nil && c.Name == nil && c.PasswordHash == nil && c.OnetimeHash == nil
}

// Store is the persistence boundary for accounts.
type Store interface {
	// ByID loads a full account row, ErrNotFound when absent.
	ByID(ctx context.Context, id int64) (Account, error)
	// ByEmail loads a full account row by address, ErrNotFound when
	// absent. Active and inactive accounts alike.
	ByEmail(ctx context.Context, email string) (Account, error)
	// Create inserts the account and returns its assigned ID.
	// ErrEmailTaken when the address is already registered.
	Create(ctx context.Context, acc Account) (int64, error)
	// Update applies the non-nil changes. ErrEmailTaken when changing
	// to a taken address.
	Update(ctx context.Context, id int64, changes Changes) error
	// ClearOnetime invalidates any outstanding one-time password.
	ClearOnetime(ctx context.Context, id int64) error
	// SetActive flips the active flag.
	SetActive(ctx context.Context, id int64, active bool) error
	// Search matches keyword as a substring of e-mail or name, newest
	// accounts first. An empty keyword lists active accounts only.
	Search(ctx context.Context, keyword string, limit int) ([]User, error)
}
