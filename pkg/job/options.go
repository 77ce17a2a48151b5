package job

import (
	"context"
	"log/slog"
)

type config struct {
	registry   *registry
	queues     map[string]int
	logger     *slog.Logger
	schedules  []schedule
	maxWorkers int
}

func newConfig() *config {
	return &config{
		registry: newRegistry(),
		queues:   make(map[string]int),
	}
}

// schedule is a periodic task bound to a cron expression.
type schedule struct {
	handler func(context.Context) error
	name    string
	expr    string
}

// Option configures the job runner.
type Option func(*config)

// WithTask registers a task handler. The task needs Name() and
// Handle(ctx, P) methods; the payload type P is taken from Handle.
//
//	type DeliverMail struct{ outbox *outbox.Service }
//
//	func (t *DeliverMail) Name() string { return "deliver_mail" }
//	func (t *DeliverMail) Handle(ctx context.Context, p DeliverMailPayload) error {
//	    return t.outbox.Deliver(ctx, p.EmailID)
//	}
//
//	job.WithTask(&DeliverMail{outbox: svc})
func WithTask[P any, T interface {
	Name() string
	Handle(context.Context, P) error
}](task T) Option {
	return func(c *config) {
		c.registry.add(task.Name(), wrap[P, T](task))
	}
}

// WithScheduledTask registers a periodic task. The task needs Name(),
// Schedule() returning a 5-field cron expression and Handle(ctx).
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, schedule{
			name:    task.Name(),
			expr:    task.Schedule(),
			handler: task.Handle,
		})
	}
}

// WithQueue adds a named queue with its own worker count.
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if workers > 0 {
			c.queues[name] = workers
		}
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers caps concurrency on the default queue. Defaults to 100.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}
