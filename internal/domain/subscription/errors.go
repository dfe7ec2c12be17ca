package subscription

import "errors"

var (
	ErrNotFound         = errors.New("subscription not found")
	ErrInvalidType      = errors.New("invalid subscription type")
	ErrAlreadyActive    = errors.New("provider already has an active subscription of this type")
	ErrProviderRequired = errors.New("provider profile required")
)
