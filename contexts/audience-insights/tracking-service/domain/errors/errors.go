package errors

import "errors"

var (
	ErrMissingVersion     = errors.New("event version is required and must be positive")
	ErrMissingTimestamp   = errors.New("event timestamp is required")
	ErrInvalidTimestamp   = errors.New("event timestamp is not a valid instant")
	ErrMissingOrder       = errors.New("event order is required")
	ErrInvalidSessionID   = errors.New("session_id must be a valid UUID")
	ErrMissingAction      = errors.New("event action is required")
	ErrUnknownAction      = errors.New("event action is not in the accepted set")
	ErrInvalidMeta        = errors.New("event meta is not well-formed JSON")
	ErrMissingContext     = errors.New("client_context and server_context are required")
	ErrInvalidClientIP    = errors.New("claimed client ip could not be parsed")
	ErrEventNotStored     = errors.New("tracking event could not be stored")
	ErrNotificationFailed = errors.New("notification could not be delivered")
)
