package notification

import "errors"

var (
	// ErrSubscribeFailed means the realtime change channel could not be
	// opened. Not fatal to the application; callers retry by subscribing
	// again on the next session change.
	ErrSubscribeFailed = errors.New("failed to subscribe to booking changes")
)
