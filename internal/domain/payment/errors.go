package payment

import "errors"

var (
	ErrNotFound       = errors.New("payment not found")
	ErrNotHeld        = errors.New("payment is not held")
	ErrReleaseBlocked = errors.New("payout release blocked")
)
