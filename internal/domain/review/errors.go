package review

import "errors"

var (
	ErrNotFound           = errors.New("review not found")
	ErrAlreadyReviewed    = errors.New("booking already reviewed")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrNotCustomer        = errors.New("only the booking customer can review")
	ErrBookingNotComplete = errors.New("booking is not completed")
)
