// Package session defines the session value object, its persistence
// interface and the client fingerprint used to detect hijacked cookies.
//
// A [Session] tracks its own dirty and new state so the request
// lifecycle can persist it exactly once per request. [Fingerprint]
// hashes the Accept-Language, Accept and User-Agent headers with the
// client IP; a cookie presenting a stale fingerprint gets a fresh empty
// session instead of an error.
//
// Forms are protected against replay and cross-site submission with
// single-use tokens: [Session.BeginForm] issues one, and
// [Session.ValidateForm] consumes it on the next POST.
package session
