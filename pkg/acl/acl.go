package acl

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// Wildcard markers. An action or object type of "*" matches everything;
// an object ID of 0 matches every instance of the matched type.
const (
	WildcardAction = "*"
	WildcardType   = "*"
	WildcardID     = int64(0)
)

// Grant is one flat permission row: the right to perform Action on
// ObjectType/ObjectID, subject to the wildcard rules above.
type Grant struct {
	Action     string
	ObjectType string
	ObjectID   int64
}

// Tree is the in-memory decision structure derived from a principal's
// grants: action → object type → set of object IDs. A nil Tree means
// "never loaded" and denies everything; an empty non-nil Tree means
// "loaded, zero rights" and also denies everything, but marks the
// principal as resolved.
type Tree map[string]map[string]map[int64]struct{}

// add inserts a flat grant row into the tree.
func (t Tree) add(g Grant) {
	types, ok := t[g.Action]
	if !ok {
		types = make(map[string]map[int64]struct{})
		t[g.Action] = types
	}
	ids, ok := types[g.ObjectType]
	if !ok {
		ids = make(map[int64]struct{})
		types[g.ObjectType] = ids
	}
	ids[g.ObjectID] = struct{}{}
}

// Engine answers permission queries for one session's principal.
//
// The tree is a cache, not a source of truth: it is rebuilt wholesale from
// the backing store whenever the active principal changes or a mutation
// touches the principal's rights. Rebuilds are synchronous so a caller
// never observes a stale decision right after granting or revoking its own
// rights.
type Engine struct {
	store Store

	mu     sync.RWMutex
	tree   Tree
	roles  map[string]struct{}
	userID int64
}

// NewEngine creates an Engine over the given grant store with no principal
// loaded. Every decision operation denies until Reload succeeds.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Reload rebuilds the permission tree and role set for userID from the
// backing store: the union of direct user grants and role grants reached
// through the user's memberships. When both relations come back empty the
// tree stays nil, which distinguishes "never loaded" from "loaded, zero
// rights" for session-cache reuse.
func (e *Engine) Reload(ctx context.Context, userID int64) error {
	direct, err := e.store.UserGrants(ctx, userID)
	if err != nil {
		return errors.Join(ErrFailedToLoadGrants, err)
	}
	viaRoles, err := e.store.RoleGrants(ctx, userID)
	if err != nil {
		return errors.Join(ErrFailedToLoadGrants, err)
	}
	roleNames, err := e.store.Roles(ctx, userID)
	if err != nil {
		return errors.Join(ErrFailedToLoadGrants, err)
	}

	var tree Tree
	if len(direct)+len(viaRoles) > 0 {
		tree = make(Tree)
		for _, g := range direct {
			tree.add(g)
		}
		for _, g := range viaRoles {
			tree.add(g)
		}
	}

	roles := make(map[string]struct{}, len(roleNames))
	for _, r := range roleNames {
		roles[r] = struct{}{}
	}

	e.mu.Lock()
	e.tree = tree
	e.roles = roles
	e.userID = userID
	e.mu.Unlock()
	return nil
}

// Clear drops the loaded principal. Subsequent decisions deny vacuously.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.tree = nil
	e.roles = nil
	e.userID = 0
	e.mu.Unlock()
}

// UserID returns the currently loaded principal's user ID, 0 if none.
func (e *Engine) UserID() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.userID
}

// Can reports whether the loaded principal may perform action on the given
// object. Pass objectType "" to require a type wildcard grant, and
// objectID 0 to require an instance wildcard. With no principal loaded the
// answer is always false, never an error.
//
// The decision walks the four (action, type) combinations over the
// wildcard and literal keys; it is a pure existence test, so evaluation
// order is irrelevant.
func (e *Engine) Can(action, objectType string, objectID int64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.tree == nil {
		return false
	}
	for _, act := range [2]string{WildcardAction, action} {
		types, ok := e.tree[act]
		if !ok {
			continue
		}
		for _, typ := range [2]string{WildcardType, objectType} {
			ids, ok := types[typ]
			if !ok {
				continue
			}
			if _, ok := ids[WildcardID]; ok {
				return true
			}
			if _, ok := ids[objectID]; ok {
				return true
			}
		}
	}
	return false
}

// CanAny reports whether the principal may perform action on at least one
// instance of objectType, wildcard or not. UI callers use this to choose
// between "show all" and "show only mine" branches.
func (e *Engine) CanAny(action, objectType string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.tree == nil {
		return false
	}
	for _, act := range [2]string{WildcardAction, action} {
		types, ok := e.tree[act]
		if !ok {
			continue
		}
		for _, typ := range [2]string{WildcardType, objectType} {
			if len(types[typ]) > 0 {
				return true
			}
		}
	}
	return false
}

// HasRole reports whether the loaded principal holds the role.
// False when no principal is loaded.
func (e *Engine) HasRole(role string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.roles[role]
	return ok
}

// Roles returns the loaded principal's role names in unspecified order.
func (e *Engine) Roles() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.roles))
	for r := range e.roles {
		out = append(out, r)
	}
	return out
}

// ParseObjectID converts a form-submitted object ID to its numeric form.
// Empty strings collapse to the instance wildcard 0 (an empty select
// submits ""), anything non-numeric also collapses to 0.
func ParseObjectID(s string) int64 {
	if s == "" {
		return WildcardID
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return WildcardID
	}
	return id
}
