// Package health serves liveness and readiness probes.
//
// Liveness only confirms the process runs; readiness executes named
// checks (database ping, job manager, anything matching CheckFunc)
// concurrently under a shared timeout and responds 503 when any fail.
// Both handlers answer plain text by default and JSON when the client
// asks for it via Accept header or ?format=json.
//
//	r.Get("/healthz", health.LivenessHandler())
//	r.Get("/readyz", health.ReadinessHandler(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "jobs":     job.Healthcheck(manager),
//	}))
package health
