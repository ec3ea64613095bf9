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

// Package pagination slices ranked result lists by limit and offset.
package pagination

import "slices"

// Page is one window over a ranked list.
type Page[T any] struct {
	Items      []T
	Total      int
	HasMore    bool
	NextOffset *int // Set only when HasMore is true
	Limit      int  // Effective limit; 0 means no limit was applied
	Offset     int  // Effective offset after clamping
}

// Paginate returns the window items[offset:offset+limit].
//
// A negative offset is clamped to 0 and a limit of 0 or less returns every
// item from offset on. HasMore is only ever true when a limit was applied,
// in which case NextOffset is offset+limit. The returned Items never alias
// the input slice.
func Paginate[T any](items []T, limit, offset int) Page[T] {
	total := len(items)
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	start := min(offset, total)
	end := total
	if limit > 0 && limit < total-start {
		end = start + limit
	}

	page := Page[T]{
		Items:  slices.Clone(items[start:end]),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	if page.Items == nil {
		page.Items = []T{}
	}

	if end < total {
		next := end
		page.HasMore = true
		page.NextOffset = &next
	}

	return page
}

// ClampLimit bounds a requested page size by max. A zero request means
// "all" and is left alone; a non-positive max disables the bound.
func ClampLimit(requested, max int) int {
	if requested < 0 {
		return 0
	}
	if max > 0 && requested > max {
		return max
	}
	return requested
}
