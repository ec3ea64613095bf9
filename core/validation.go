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

import (
	"fmt"
	"strings"
)

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - Name must not be blank
//   - Category must belong to the closed category set
//
// NOT validated:
//   - ID (0 is replaced by RecordID when the record is loaded)
//   - Free-text fields, which may be empty
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyName)
	}

	if !record.Category.IsKnown() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidRecord, ErrUnknownCategory, record.Category)
	}

	return nil
}

// ValidateRequest validates a QueryRequest.
// Negative offsets are tolerated and clamped later by the paginator.
func ValidateRequest(req *QueryRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	if strings.TrimSpace(req.Question) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyQuestion)
	}

	if req.Limit < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrNegativeLimit)
	}

	return nil
}
