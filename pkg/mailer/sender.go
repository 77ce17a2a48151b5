package mailer

import "context"

// Sender is the delivery boundary an e-mail provider implements. The
// Email arrives fully prepared: recipients, subject and both bodies set.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}
