package dispatch

import "errors"

var (
	// ErrClassifierRequired is returned when a nil classifier is provided.
	ErrClassifierRequired = errors.New("classifier is required")

	// ErrStoreRequired is returned when a nil directory store is provided.
	ErrStoreRequired = errors.New("directory store is required")

	// ErrRegistryRequired is returned when a nil responder registry is provided.
	ErrRegistryRequired = errors.New("responder registry is required")

	// ErrHandlerFailure wraps an error or panic raised by a responder.
	ErrHandlerFailure = errors.New("category handler failed")

	// ErrInvalidMaxLimit is returned for a non-positive page size cap.
	ErrInvalidMaxLimit = errors.New("max limit must be greater than 0")
)
