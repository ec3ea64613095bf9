package badger

import (
	"encoding/binary"

	"github.com/poiesic/concierge/core"
)

// Key prefixes for different data types
const (
	directoryRecordPrefix = "dirrec:"
	directorySyncedKey    = "dirmeta:synced"
)

// makeRecordKey generates a composite key for a directory record.
// Format: prefix:category:id
func makeRecordKey(category core.Category, id core.ID) []byte {
	prefix := makeCategoryPrefix(category)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// BigEndian keeps records of a category in ID order
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeCategoryPrefix generates the scan prefix for one category.
// Format: prefix:category:
func makeCategoryPrefix(category core.Category) []byte {
	return []byte(directoryRecordPrefix + string(category) + ":")
}
