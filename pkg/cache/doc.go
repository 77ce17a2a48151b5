// Package cache provides a generic TTL cache used for short-lived
// lookups such as the user resolve cache.
//
// [Memory] is an in-process implementation with lazy expiration, a
// background janitor and LRU eviction under a configurable entry cap.
// [GetOrSet] adds stampede protection on top of any [Cache]: concurrent
// misses for the same key share one compute call via
// [golang.org/x/sync/singleflight].
//
//	c := cache.NewMemory[users.User](
//	    cache.WithDefaultTTL(5*time.Minute),
//	    cache.WithMaxEntries(10000),
//	)
//	defer c.Close()
//
//	u, err := cache.GetOrSet(ctx, c, key, func(ctx context.Context) (users.User, time.Duration, error) {
//	    u, err := store.ByID(ctx, id)
//	    return u, 0, err
//	})
package cache
