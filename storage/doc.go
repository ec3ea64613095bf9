// Package storage defines the directory interfaces the engine reads
// advertiser records through, the binary record codec shared by the cache
// and snapshot backends, and the JSON wire shape used by the API and file
// backends.
//
// Concrete backends live in subpackages: api, file, postgres, redis and
// badger. ResilientStore chains any of them into a DirectoryStore that
// never fails.
package storage
