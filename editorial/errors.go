package editorial

import "errors"

var (
	// ErrNoFeeds is returned when a FeedLibrary is built without feed URLs.
	ErrNoFeeds = errors.New("at least one feed URL is required")

	// ErrFeedUnavailable wraps a feed fetch or parse failure.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrInvalidCache is returned when a saved article cache cannot be parsed.
	ErrInvalidCache = errors.New("invalid article cache")

	// ErrInvalidGuide is returned for a guide file without a title or slug.
	ErrInvalidGuide = errors.New("invalid guide")
)
