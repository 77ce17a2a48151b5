// Package middlewares provides standard net/http middleware for the
// outer router: request IDs and panic recovery. Wire them with
// anvil.WithMiddleware; they run ahead of health endpoints, static
// mounts and the kernel alike.
package middlewares
