package provider

import "errors"

var (
	ErrNotFound        = errors.New("provider not found")
	ErrAlreadyExists   = errors.New("user already has a provider profile")
	ErrNotOwner        = errors.New("actor does not own this provider profile")
	ErrInvalidImage    = errors.New("invalid image file")
	ErrImageTooLarge   = errors.New("image file too large")
	ErrAlreadyDecided  = errors.New("verification already decided")
)
