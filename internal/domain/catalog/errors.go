package catalog

import "errors"

var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrNotOwner         = errors.New("actor does not own this service")
	ErrProviderRequired = errors.New("provider profile required")
)
