// Package editorial finds magazine guides and articles related to a
// question so answers can point readers at long-form content.
//
// Two providers are available. GuideLibrary scores a fixed set of guides
// loaded from JSON files. FeedLibrary keeps a rolling cache of RSS/Atom
// articles fetched with gofeed. Multi chains providers and merges their
// results.
package editorial
