package acl

import "errors"

var (
	// ErrInvalidGrant is returned for target/scope combinations that make
	// no sense, such as granting a role membership to another role.
	ErrInvalidGrant = errors.New("acl: invalid target and scope combination")

	// ErrFailedToLoadGrants wraps store failures during a tree rebuild.
	ErrFailedToLoadGrants = errors.New("acl: failed to load grants")
)
