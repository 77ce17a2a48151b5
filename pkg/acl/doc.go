// Package acl implements role-based access control with per-object grants.
//
// A grant is the right to perform an action on an object type, optionally
// narrowed to a single object ID. Grants attach either directly to a user
// or to a named role, and users reach role grants through memberships in
// the users_roles relation. The special values "*" (action or object type)
// and 0 (object ID) act as wildcards.
//
// # Decisions
//
// An [Engine] holds one principal's effective rights as an in-memory tree
// rebuilt from the [Store] via [Engine.Reload]. Decisions are pure lookups
// and never touch the database:
//
//	engine := acl.NewEngine(acl.NewPostgresStore(pool))
//	if err := engine.Reload(ctx, userID); err != nil { ... }
//
//	engine.Can("edit", "article", 42)     // single object
//	engine.CanAny("edit", "article")      // at least one object
//	engine.RowFilter("view", "article")   // allow-list for listing queries
//
// Before the first successful Reload every decision denies. Denial is an
// answer, not an error.
//
// # Mutations
//
// Grants are written through tagged target/scope pairs, which keeps the
// user-versus-role and membership-versus-right distinctions in the type
// system instead of in positional string arguments:
//
//	engine.Apply(ctx, acl.User(7), acl.Membership("editor"))
//	engine.Apply(ctx, acl.Role("editor"), acl.Right("edit", "article", 0))
//	engine.Remove(ctx, acl.User(7), acl.Right("view", "report", 3))
//
// Mutations that can affect the loaded principal trigger a synchronous
// tree rebuild, so a caller editing its own rights observes the change
// immediately.
package acl
