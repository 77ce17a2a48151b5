// Package eventbus provides a synchronous named-event dispatcher with
// priority ordering.
//
// Handlers subscribe to string-named events with an integer priority; lower
// priorities run first, and handlers sharing a priority run in registration
// order. Dispatch is a plain nested call tree: no goroutines, no buffering,
// no delivery guarantees beyond the current call.
//
// # Results
//
// Every handler returns a [Result], which is either a value or the explicit
// failure sentinel created with [Failure]. Two convenience forms interpret
// the result list:
//
//   - [Bus.Grab] returns the last handler's value (a "reply" convention for
//     events with a single logical responder).
//   - [Bus.Pass] reports whether the last handler did not fail. An event
//     with no handlers passes vacuously, which lets optional hooks such as
//     request-validation gates default to "allow" when nothing registered.
//
// # Usage
//
//	bus := eventbus.New()
//	bus.Register("startup", 10, sessionStartup)
//	bus.Register("startup", 50, routerStartup)
//
//	bus.On("can", func(ctx context.Context, args ...any) eventbus.Result {
//	    if allowed(args) {
//	        return eventbus.Value(true)
//	    }
//	    return eventbus.Failure()
//	})
//
//	if bus.Pass(ctx, "can", "login") {
//	    // ...
//	}
package eventbus
