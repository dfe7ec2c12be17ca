package booking

import "errors"

var (
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrNotBookingParty   = errors.New("actor is not a party to this booking")
	ErrServiceNotFound   = errors.New("service not found")
	ErrServiceInactive   = errors.New("service is not active")
	ErrInvalidTimeRange  = errors.New("end_time must be after start_time")
)
