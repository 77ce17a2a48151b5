package internal

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/anvil/pkg/eventbus"
)

// Route event naming: a handler for /admin/users registers under
// "route/admin+users", one for everything under /admin registers
// "route/admin". The two-segment key always wins.
const (
	routePrefix    = "route/"
	routeSeparator = "+"
	defaultRoute   = "main"
)

// Kernel resolves parsed requests against the event bus and runs the
// matched route handler.
type Kernel struct {
	bus    *eventbus.Bus
	logger *slog.Logger
}

// NewKernel creates a Kernel over the bus.
func NewKernel(bus *eventbus.Bus, logger *slog.Logger) *Kernel {
	return &Kernel{bus: bus, logger: logger}
}

// resolve picks the route key for the request's segments and returns it
// with the segments left over for the handler. An empty key means no
// route matched.
func (k *Kernel) resolve(segments []string) (string, []string) {
	if len(segments) >= 2 {
		key := segments[0] + routeSeparator + segments[1]
		if k.bus.Listeners(routePrefix + key) {
			return key, segments[2:]
		}
	}
	if len(segments) >= 1 {
		if k.bus.Listeners(routePrefix + segments[0]) {
			return segments[0], segments[1:]
		}
	}
	if k.bus.Listeners(routePrefix + defaultRoute) {
		return defaultRoute, segments
	}
	return "", nil
}

// Route runs one request through resolution, the validation gate and
// the matched handler, recording status on the request.
func (k *Kernel) Route(ctx context.Context, req *Request) {
	key, rest := k.resolve(req.Segments)
	if key == "" {
		req.SetStatus(404)
		k.logger.DebugContext(ctx, "no route matched",
			slog.String("path", strings.Join(req.Segments, "/")),
		)
		return
	}

	// The gate handles its own redirect; a refusal is not an error.
	if !k.bus.Pass(ctx, "validate_request", key) {
		k.logger.DebugContext(ctx, "request gate refused route",
			slog.String("route", key),
		)
		return
	}

	args := make([]any, len(rest))
	for i, seg := range rest {
		args[i] = seg
	}
	if !k.bus.Pass(ctx, routePrefix+key, args...) {
		req.SetStatus(500)
		k.logger.ErrorContext(ctx, "route handler failed",
			slog.String("route", key),
		)
	}
}
