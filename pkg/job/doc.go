// Package job runs background work on River, the Postgres-native queue.
//
// Tasks are plain structs with Name() and Handle(ctx, P) methods; the
// payload type is inferred, no interface import needed. A Manager both
// enqueues and processes jobs; an Enqueuer only inserts, for processes
// that produce work consumed elsewhere.
//
//	manager, err := job.NewManager(pool,
//	    job.WithTask(&DeliverMail{outbox: svc}),
//	    job.WithScheduledTask(&PurgeSessions{store: sessions}),
//	    job.WithQueue("mail", 10),
//	    job.WithLogger(log),
//	)
//
// Periodic tasks add Schedule() returning a standard 5-field cron
// expression and a payload-less Handle(ctx).
//
// EnqueueTx inserts a job inside an open transaction, so the job becomes
// visible only if the surrounding data changes commit. Delivery retries
// with exponential backoff up to MaxAttempts.
package job
