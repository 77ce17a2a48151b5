// Package redis connects go-redis clients with startup retry, a
// readiness probe and a shutdown hook. The session store's Redis
// backend takes the client this package hands out.
package redis
