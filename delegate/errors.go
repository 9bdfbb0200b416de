package delegate

import "errors"

var (
	// ErrInvalidConfig is returned when an option is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidNamespace is returned when the namespace is empty
	ErrInvalidNamespace = errors.New("namespace cannot be empty")

	// ErrNoNamespace is logged when state is used before SetNamespace
	ErrNoNamespace = errors.New("namespace has not been set")

	// ErrEncodeFailed is logged when a payload cannot be serialized
	ErrEncodeFailed = errors.New("state payload is not serializable")

	// ErrMaxDepthExceeded is logged when nested state changes go too deep
	ErrMaxDepthExceeded = errors.New("state change chain exceeds max depth")

	// ErrCallbackFailed wraps an error or panic raised by a subscriber
	ErrCallbackFailed = errors.New("subscriber callback failed")
)
