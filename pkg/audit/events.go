package audit

import (
	"context"
	"time"

	"github.com/dmitrymomot/anvil/pkg/eventbus"
)

// Bind registers the trail's bus surface so handlers can record and
// query history without holding a Trail reference:
//
//	log        (Entry)                          append an entry
//	history    (Query)                          Grab []Entry
//	user_seen  (userID int64)                   Grab *LoginInfo, last login
//	in_history (objectType string, begin, end)  Grab []int64, active object IDs
func (t *Trail) Bind(bus *eventbus.Bus) {
	bus.On("log", func(ctx context.Context, args ...any) eventbus.Result {
		if len(args) == 0 {
			return eventbus.Failure()
		}
		entry, ok := args[0].(Entry)
		if !ok {
			return eventbus.Failure()
		}
		if err := t.Log(ctx, entry); err != nil {
			return eventbus.Failure()
		}
		return eventbus.OK()
	})

	bus.On("history", func(ctx context.Context, args ...any) eventbus.Result {
		if len(args) == 0 {
			return eventbus.Failure()
		}
		q, ok := args[0].(Query)
		if !ok {
			return eventbus.Failure()
		}
		entries, err := t.History(ctx, q)
		if err != nil {
			return eventbus.Failure()
		}
		return eventbus.Value(entries)
	})

	bus.On("user_seen", func(ctx context.Context, args ...any) eventbus.Result {
		if len(args) == 0 {
			return eventbus.Failure()
		}
		userID, ok := args[0].(int64)
		if !ok {
			return eventbus.Failure()
		}
		info, err := t.LastLogin(ctx, userID)
		if err != nil {
			return eventbus.Failure()
		}
		return eventbus.Value(info)
	})

	bus.On("in_history", func(ctx context.Context, args ...any) eventbus.Result {
		if len(args) < 3 {
			return eventbus.Failure()
		}
		objectType, ok := args[0].(string)
		if !ok {
			return eventbus.Failure()
		}
		begin, ok := args[1].(time.Time)
		if !ok {
			return eventbus.Failure()
		}
		end, ok := args[2].(time.Time)
		if !ok {
			return eventbus.Failure()
		}
		ids, err := t.ActiveObjectIDs(ctx, objectType, begin, end)
		if err != nil {
			return eventbus.Failure()
		}
		return eventbus.Value(ids)
	})
}
