// Package anvil is an event-kernel web framework for small sites.
//
// Every HTTP request (and every CLI trigger) becomes a Request that is
// pushed through a named-event bus: session startup, a segment router
// keyed on URL path ("route/admin+users" beats "route/admin" beats
// "route/main"), an optional validate_request gate, and final session
// persistence. Route handlers are bus handlers; cross-cutting modules
// (ACL, audit trail, outbox) hook the same events instead of wrapping
// the router.
//
// The packages under pkg/ are usable on their own:
//
//   - eventbus: priority pub/sub with grab/pass collection
//   - acl: wildcard permission tree over postgres-backed grants
//   - session + sessionstore: sessions with fingerprint and form tokens
//   - users: accounts, bcrypt auth, one-time passwords, ban
//   - audit: append-only transactions trail
//   - outbox + mailer: reviewed e-mail queue and markdown templates
//   - db, redis, cache, job, logger, health, sanitizer: supporting kit
//
// A minimal application:
//
//	app := anvil.New(anvil.WithLogger(log))
//	app.HandleRoute("main", func(c *anvil.Context, _ ...string) error {
//	    return c.HTML(200, "<h1>hello</h1>")
//	})
//	if err := app.Run(":8080"); err != nil {
//	    log.Error("server", slog.Any("error", err))
//	}
package anvil
