package syncer

import "errors"

var (
	// ErrSourceRequired is returned when no upstream source is given.
	ErrSourceRequired = errors.New("upstream source is required")

	// ErrSinkRequired is returned when no sink is given.
	ErrSinkRequired = errors.New("snapshot sink is required")

	// ErrEmptyDirectory is returned when the upstream answered with no
	// records at all. The existing snapshot is left untouched.
	ErrEmptyDirectory = errors.New("upstream directory is empty")
)
