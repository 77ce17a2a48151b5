// Package sessionstore provides the persistent backends for
// [github.com/dmitrymomot/anvil/pkg/session]: [Postgres] for
// single-store deployments and [Redis] for setups that want session
// churn off the primary database. Both satisfy session.Store; pick one
// with anvil.WithSessionStore.
package sessionstore
