// Package internal implements the anvil kernel: the request lifecycle,
// the event-keyed router, cookie sessions and the application shell.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/anvil" instead, which re-exports the public
// API.
//
// Every HTTP request (and every CLI trigger) is turned into a Request,
// wrapped in a Context and pushed through the event bus: "startup"
// loads the session and runs the router, which dispatches "language",
// "request", a "validate_request" gate and finally the matched
// "route/<key>" event; "shutdown" persists the session. Handlers never
// see net/http directly unless they ask the Context for it.
package internal
