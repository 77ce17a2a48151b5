package outbox

import "errors"

var (
	ErrNotFound     = errors.New("outbox: message not found")
	ErrAlreadySent  = errors.New("outbox: message already sent")
	ErrNoRecipients = errors.New("outbox: no recipients")
)
