package outbox

import (
	"context"
	"errors"
)

// SendPayload identifies one spooled message to deliver. Reviewed marks
// messages a person released from their outbox, as opposed to system
// mail sent directly.
type SendPayload struct {
	EmailID  int64 `json:"email_id"`
	Reviewed bool  `json:"reviewed,omitempty"`
}

// SendTask delivers one outbox message on the background queue.
type SendTask struct {
	svc *Service
}

// NewSendTask creates the delivery task.
func NewSendTask(svc *Service) *SendTask {
	return &SendTask{svc: svc}
}

func (t *SendTask) Name() string { return TaskSend }

func (t *SendTask) Handle(ctx context.Context, p SendPayload) error {
	err := t.svc.Deliver(ctx, p.EmailID, p.Reviewed)
	if errors.Is(err, ErrAlreadySent) {
		// A retry raced an earlier attempt that did go through.
		return nil
	}
	return err
}

// SweepTask retries system messages stuck in the queue.
type SweepTask struct {
	svc *Service
}

// NewSweepTask creates the hourly sweep.
func NewSweepTask(svc *Service) *SweepTask {
	return &SweepTask{svc: svc}
}

func (t *SweepTask) Name() string { return TaskSweep }

func (t *SweepTask) Schedule() string { return "0 * * * *" }

func (t *SweepTask) Handle(ctx context.Context) error {
	return t.svc.Sweep(ctx)
}
