package users

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/dmitrymomot/anvil/pkg/audit"
	"github.com/dmitrymomot/anvil/pkg/cache"
	"github.com/dmitrymomot/anvil/pkg/sanitizer"
)

// User is the public subset of an account, safe to hand to templates
// and logs.
type User struct {
	ID     int64
	Email  string
	Name   string
	Active bool
}

// Account is the full row including credential hashes. It never leaves
// this package's service layer.
type Account struct {
	User
	PasswordHash    string
	OnetimeHash     string
	OnetimeIssuedAt time.Time
}

// noPassword is the hash placeholder for accounts that cannot log in
// with a password. It never verifies.
const noPassword = "*"

// Memberships grants role membership to accounts. Satisfied by acl
// stores.
type Memberships interface {
	AddMembership(ctx context.Context, userID int64, role string) error
}

// Service manages accounts: resolution, authentication, registration
// and directory search.
type Service struct {
	store           Store
	resolved        cache.Cache[User]
	trail           *audit.Trail
	memberships     Memberships
	logger          *slog.Logger
	onetimeLifetime time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithResolveCache installs a cache for Resolve lookups. Without one
// every Resolve hits the store.
func WithResolveCache(c cache.Cache[User]) Option {
	return func(s *Service) { s.resolved = c }
}

// WithOnetimeLifetime overrides how long a one-time password stays
// valid. Default 30 minutes.
func WithOnetimeLifetime(d time.Duration) Option {
	return func(s *Service) { s.onetimeLifetime = d }
}

// WithTrail records an audit entry when an account is created or
// changed.
func WithTrail(t *audit.Trail) Option {
	return func(s *Service) { s.trail = t }
}

// WithMemberships grants the member role to every created account.
func WithMemberships(m Memberships) Option {
	return func(s *Service) { s.memberships = m }
}

// WithLogger sets the logger. Defaults to discard.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service over the given store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:           store,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		onetimeLifetime: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the display subset for a user ID, served from the
// resolve cache when one is configured. Missing users return
// ErrNotFound.
func (s *Service) Resolve(ctx context.Context, id int64) (User, error) {
	if s.resolved == nil {
		acc, err := s.store.ByID(ctx, id)
		if err != nil {
			return User{}, err
		}
		return acc.User, nil
	}
	return cache.GetOrSet(ctx, s.resolved, resolveKey(id), func(ctx context.Context) (User, time.Duration, error) {
		acc, err := s.store.ByID(ctx, id)
		if err != nil {
			return User{}, 0, err
		}
		return acc.User, 0, nil
	})
}

// ByEmail loads an account by address. With activeOnly set, deactivated
// accounts return ErrNotFound.
func (s *Service) ByEmail(ctx context.Context, email string, activeOnly bool) (Account, error) {
	acc, err := s.store.ByEmail(ctx, sanitizer.CleanEmail(email))
	if err != nil {
		return Account{}, err
	}
	if activeOnly && !acc.Active {
		return Account{}, ErrNotFound
	}
	return acc, nil
}

// Search returns up to limit directory entries matching the keyword as
// a substring of the e-mail or name. An empty keyword lists active
// accounts only; with a keyword, inactive accounts are included so
// admins can find them.
func (s *Service) Search(ctx context.Context, keyword string, limit int) ([]User, error) {
	if limit <= 0 || limit > searchLimit {
		limit = searchLimit
	}
	return s.store.Search(ctx, keyword, limit)
}

const searchLimit = 100

// SetActive flips the account's active flag and drops it from the
// resolve cache.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.store.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if s.resolved != nil {
		_ = s.resolved.Delete(ctx, resolveKey(id))
	}
}

func resolveKey(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}
