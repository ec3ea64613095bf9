// Package file reads the directory from a local JSON export shaped as
// {"<category>": [records...]}. It is the last-resort fallback when the
// remote directory is unreachable.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/storage"
)

// Source serves records from a JSON file. The file is read on first use and
// cached; Reload forces a re-read.
type Source struct {
	path string

	mu      sync.RWMutex
	loaded  bool
	records []core.Record
}

var _ storage.Source = (*Source)(nil)

// NewSource creates a file source for path. The file is not opened until
// the first fetch.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Name implements storage.Source.
func (s *Source) Name() string {
	return "file"
}

// FetchCategory implements storage.Source.
func (s *Source) FetchCategory(ctx context.Context, category core.Category) ([]core.Record, error) {
	all, err := s.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(r core.Record) bool {
		return r.Category != category
	}), nil
}

// FetchAll implements storage.Source.
func (s *Source) FetchAll(_ context.Context) ([]core.Record, error) {
	s.mu.RLock()
	if s.loaded {
		out := core.CloneRecords(s.records)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	if err := s.Reload(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.CloneRecords(s.records), nil
}

// Reload re-reads the file.
func (s *Source) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrSourceUnavailable, err)
	}
	records, err := Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", storage.ErrSourceUnavailable, s.path, err)
	}

	s.mu.Lock()
	s.records = records
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Decode parses a category map into a flat record list ordered by
// category name, keeping file order within each category.
func Decode(data []byte) ([]core.Record, error) {
	var byCategory map[string][]storage.WireRecord
	if err := json.Unmarshal(data, &byCategory); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(byCategory))
	for k := range byCategory {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var records []core.Record
	for _, k := range keys {
		for _, w := range byCategory[k] {
			w.Category = ""
			records = append(records, w.Record(core.Category(k)))
		}
	}
	return records, nil
}

// Encode writes records in the category map shape Decode reads.
func Encode(records []core.Record) ([]byte, error) {
	byCategory := make(map[string][]storage.WireRecord)
	for _, r := range records {
		w := storage.FromRecord(r)
		w.Category = ""
		byCategory[string(r.Category)] = append(byCategory[string(r.Category)], w)
	}
	return json.MarshalIndent(byCategory, "", "  ")
}
