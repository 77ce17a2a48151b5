package acl

import "context"

// Store is the persistence boundary for grants, role grants and role
// memberships. Implementations must make Add operations idempotent and
// Delete operations tolerant of missing rows.
type Store interface {
	// UserGrants returns the grants assigned directly to the user.
	UserGrants(ctx context.Context, userID int64) ([]Grant, error)
	// RoleGrants returns the grants the user reaches through role
	// memberships, duplicates allowed.
	RoleGrants(ctx context.Context, userID int64) ([]Grant, error)
	// Roles returns the names of the roles the user is a member of.
	Roles(ctx context.Context, userID int64) ([]string, error)

	AddUserGrant(ctx context.Context, userID int64, g Grant) error
	DeleteUserGrant(ctx context.Context, userID int64, g Grant) error
	AddRoleGrant(ctx context.Context, role string, g Grant) error
	DeleteRoleGrant(ctx context.Context, role string, g Grant) error
	AddMembership(ctx context.Context, userID int64, role string) error
	DeleteMembership(ctx context.Context, userID int64, role string) error

	// WipeUser atomically removes every direct grant and every
	// membership held by the user.
	WipeUser(ctx context.Context, userID int64) error

	// GrantsOfUser and GrantsOfRole list stored rows for admin screens.
	GrantsOfUser(ctx context.Context, userID int64) ([]Grant, error)
	GrantsOfRole(ctx context.Context, role string) ([]Grant, error)
	// MembersOfRole returns the user IDs holding the role.
	MembersOfRole(ctx context.Context, role string) ([]int64, error)
}
