package availability

import "errors"

var (
	ErrNotFound         = errors.New("availability slot not found")
	ErrNotOwner         = errors.New("actor does not own this slot")
	ErrInvalidWindow    = errors.New("slot end must be after start")
	ErrOverlappingSlot  = errors.New("slot overlaps an existing one")
	ErrProviderRequired = errors.New("provider profile required")
)
