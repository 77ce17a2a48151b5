// Package logger builds [log/slog] loggers for the application.
//
// [New] returns a stdout JSON logger. [NewWatchdog] additionally mirrors
// warnings and errors to Sentry when a DSN is configured, degrading to
// stdout-only otherwise. Both variants accept [ContextExtractor]
// functions that append request-scoped attributes (request ID, session
// ID, user ID) to every record at log time.
//
//	log := logger.NewWatchdog(logger.WatchdogConfig{DSN: dsn},
//	    func(ctx context.Context) (slog.Attr, bool) {
//	        if id, ok := anvil.RequestID(ctx); ok {
//	            return slog.String("request_id", id), true
//	        }
//	        return slog.Attr{}, false
//	    },
//	)
package logger
