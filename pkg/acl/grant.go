package acl

import "context"

// MemberRole is the baseline role every active account holds. Unbanning
// an account restores exactly this membership and nothing else.
const MemberRole = "member"

// Target identifies who a grant or revocation applies to: either a user
// by ID or a role by name, never both.
type Target struct {
	userID int64
	role   string
}

// User targets an individual account.
func User(id int64) Target { return Target{userID: id} }

// Role targets every member of a named role.
func Role(name string) Target { return Target{role: name} }

// IsUser reports whether the target is an individual account.
func (t Target) IsUser() bool { return t.role == "" }

// Scope describes what is being granted: either membership in a role or a
// concrete right.
type Scope struct {
	membership string
	right      Grant
	isRight    bool
}

// Membership grants (or revokes) membership in the named role. Only valid
// against a user target; roles cannot be members of roles.
func Membership(role string) Scope { return Scope{membership: role} }

// Right grants (or revokes) a single permission row.
func Right(action, objectType string, objectID int64) Scope {
	return Scope{right: Grant{Action: action, ObjectType: objectType, ObjectID: objectID}, isRight: true}
}

// Apply persists a grant. Valid combinations are user+membership,
// user+right and role+right; granting a membership to a role returns
// ErrInvalidGrant. Granting something already held is a no-op, not an
// error. If the mutation can affect the loaded principal the permission
// tree is rebuilt before returning.
func (e *Engine) Apply(ctx context.Context, target Target, scope Scope) error {
	switch {
	case target.IsUser() && !scope.isRight:
		if err := e.store.AddMembership(ctx, target.userID, scope.membership); err != nil {
			return err
		}
	case target.IsUser():
		if err := e.store.AddUserGrant(ctx, target.userID, scope.right); err != nil {
			return err
		}
	case scope.isRight:
		if err := e.store.AddRoleGrant(ctx, target.role, scope.right); err != nil {
			return err
		}
	default:
		return ErrInvalidGrant
	}
	return e.refreshIfAffected(ctx, target)
}

// Remove deletes a previously persisted grant. Removing something not
// held is a no-op. The same target/scope combination rules as Apply.
func (e *Engine) Remove(ctx context.Context, target Target, scope Scope) error {
	switch {
	case target.IsUser() && !scope.isRight:
		if err := e.store.DeleteMembership(ctx, target.userID, scope.membership); err != nil {
			return err
		}
	case target.IsUser():
		if err := e.store.DeleteUserGrant(ctx, target.userID, scope.right); err != nil {
			return err
		}
	case scope.isRight:
		if err := e.store.DeleteRoleGrant(ctx, target.role, scope.right); err != nil {
			return err
		}
	default:
		return ErrInvalidGrant
	}
	return e.refreshIfAffected(ctx, target)
}

// Ban strips userID of every direct grant and every role membership in a
// single transaction. Rights the user held only through roles disappear
// with the memberships; unbanning later restores only the member role, so
// a ban is not reversible back to the pre-ban rights set.
func (e *Engine) Ban(ctx context.Context, userID int64) error {
	if err := e.store.WipeUser(ctx, userID); err != nil {
		return err
	}
	return e.refreshIfAffected(ctx, User(userID))
}

// Unban restores the baseline member role to a previously banned account.
func (e *Engine) Unban(ctx context.Context, userID int64) error {
	return e.Apply(ctx, User(userID), Membership(MemberRole))
}

// refreshIfAffected rebuilds the loaded tree when the mutation's target is
// the active principal, either directly or through a role the principal
// holds. Mutations on bystanders leave the cache alone; they will see the
// change on their own next reload.
func (e *Engine) refreshIfAffected(ctx context.Context, target Target) error {
	e.mu.RLock()
	userID := e.userID
	affected := userID != 0 &&
		(target.IsUser() && target.userID == userID ||
			!target.IsUser() && e.containsRoleLocked(target.role))
	e.mu.RUnlock()

	if !affected {
		return nil
	}
	return e.Reload(ctx, userID)
}

func (e *Engine) containsRoleLocked(role string) bool {
	_, ok := e.roles[role]
	return ok
}
