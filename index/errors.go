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

import "errors"

var (
	// ErrEmptyTable is returned when a keyword table has no rows.
	ErrEmptyTable = errors.New("keyword table is empty")

	// ErrDuplicateCategory is returned when a category appears twice in a table.
	ErrDuplicateCategory = errors.New("duplicate category in keyword table")

	// ErrInvalidCategory is returned for a table row outside the closed category set.
	ErrInvalidCategory = errors.New("invalid category in keyword table")
)
