package outbox

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/anvil/pkg/eventbus"
)

// gatePriority runs the gate after the session handlers but before
// route-specific checks.
const gatePriority = 40

// Principal exposes the acting user of the current request: the user ID
// and whether they hold the outbox right. A zero ID means anonymous.
type Principal func(ctx context.Context) (userID int64, spools bool)

// Redirect points the current request somewhere else.
type Redirect func(ctx context.Context, target string)

// Gate registers the force-outbox check on the request validation
// event. When force-outbox is on and a spooling user has pending mail,
// every route except their outbox redirects there until the queue is
// dealt with.
func (s *Service) Gate(bus *eventbus.Bus, principal Principal, redirect Redirect) {
	bus.Register("validate_request", gatePriority, func(ctx context.Context, args ...any) eventbus.Result {
		if !s.config.ForceOutbox {
			return eventbus.OK()
		}

		route := ""
		if len(args) > 0 {
			route, _ = args[0].(string)
		}
		if route == "outbox" || strings.HasPrefix(route, "outbox+") {
			return eventbus.OK()
		}

		userID, spools := principal(ctx)
		if userID == 0 || !spools {
			return eventbus.OK()
		}

		pending, err := s.store.HasPending(ctx, userID)
		if err != nil {
			s.logger.ErrorContext(ctx, "outbox gate check failed",
				slog.Int64("user_id", userID),
				slog.Any("error", err),
			)
			return eventbus.OK()
		}
		if !pending {
			return eventbus.OK()
		}

		redirect(ctx, "/outbox")
		return eventbus.Failure()
	})
}
