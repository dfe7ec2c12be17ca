package dispute

import "errors"

var (
	ErrNotFound          = errors.New("dispute not found")
	ErrInvalidTransition = errors.New("invalid dispute status transition")
	ErrAlreadyOpen       = errors.New("booking already has an open dispute")
	ErrNotBookingParty   = errors.New("actor is not a party to this booking")
	ErrBookingNotFound   = errors.New("booking not found")
)
