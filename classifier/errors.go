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

package classifier

import "errors"

var (
	// ErrCategoryIndexRequired is returned when a category index is not provided.
	ErrCategoryIndexRequired = errors.New("category index required")

	// ErrEmbeddingUnavailable marks a failed question embedding. It is
	// reported to the monitor and logged, never returned from Classify.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrInvalidThreshold is returned for thresholds outside [0,1].
	ErrInvalidThreshold = errors.New("threshold must be within [0,1]")

	// ErrUnsupportedLanguage is returned for critical terms in a language
	// without keyword tables.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidKeywordWeights is returned for negative keyword weights.
	ErrInvalidKeywordWeights = errors.New("keyword weights must not be negative")
)
