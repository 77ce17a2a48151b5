package redis

import "errors"

var (
	ErrFailedToParseURL  = errors.New("redis: failed to parse connection url")
	ErrFailedToConnect   = errors.New("redis: failed to connect")
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
