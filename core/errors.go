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

package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidRequest indicates a QueryRequest failed validation.
	ErrInvalidRequest = errors.New("invalid query request")

	// ErrEmptyName indicates the record Name field is empty.
	ErrEmptyName = errors.New("record name cannot be empty")

	// ErrUnknownCategory indicates a category outside the closed set.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrEmptyQuestion indicates the question is blank.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrNegativeLimit indicates a negative page size.
	ErrNegativeLimit = errors.New("limit cannot be negative")
)
