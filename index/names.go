// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package index

import (
	"cmp"
	"slices"
	"strings"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/textnorm"
)

// NameEntry is one indexed business name.
type NameEntry struct {
	Name     string // normalized
	Category core.Category
	Record   core.Record
}

// NameIndex maps normalized record names to their records for exact-mention
// overrides. It is immutable after construction.
type NameIndex struct {
	entries []NameEntry // longest name first, then first insertion
}

// BuildNameIndex indexes every record with a non-empty normalized name.
// When two records share a normalized name the later one wins.
func BuildNameIndex(records []core.Record) *NameIndex {
	order := make(map[string]int, len(records))
	entries := make([]NameEntry, 0, len(records))
	for _, r := range records {
		name := textnorm.Normalize(r.Name)
		if name == "" {
			continue
		}
		entry := NameEntry{Name: name, Category: r.Category, Record: r.Clone()}
		if pos, ok := order[name]; ok {
			entries[pos] = entry
			continue
		}
		order[name] = len(entries)
		entries = append(entries, entry)
	}

	// Stable sort keeps insertion order among names of equal length.
	slices.SortStableFunc(entries, func(a, b NameEntry) int {
		return cmp.Compare(len(b.Name), len(a.Name))
	})
	return &NameIndex{entries: entries}
}

// Len returns the number of distinct indexed names.
func (n *NameIndex) Len() int {
	if n == nil {
		return 0
	}
	return len(n.entries)
}

// Match returns the first indexed name, longest first, that occurs in
// normalizedQuestion. The returned record is a copy.
func (n *NameIndex) Match(normalizedQuestion string) (NameEntry, bool) {
	if n == nil || normalizedQuestion == "" {
		return NameEntry{}, false
	}
	for _, e := range n.entries {
		if strings.Contains(normalizedQuestion, e.Name) {
			e.Record = e.Record.Clone()
			return e, true
		}
	}
	return NameEntry{}, false
}

// Lookup returns the entry for an exact name, normalizing it first.
func (n *NameIndex) Lookup(name string) (NameEntry, bool) {
	if n == nil {
		return NameEntry{}, false
	}
	key := textnorm.Normalize(name)
	for _, e := range n.entries {
		if e.Name == key {
			e.Record = e.Record.Clone()
			return e, true
		}
	}
	return NameEntry{}, false
}
