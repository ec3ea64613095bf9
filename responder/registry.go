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

package responder

import (
	"fmt"
	"maps"
	"slices"

	"github.com/poiesic/concierge/core"
)

// Registry maps categories to responders. It is closed: the mapping is fixed
// when NewRegistry returns and is safe for concurrent lookups.
type Registry struct {
	responders map[core.Category]Responder
	fallback   Responder
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry) error

// WithFallback replaces the generic responder used for unmapped categories.
func WithFallback(r Responder) RegistryOption {
	return func(reg *Registry) error {
		if r == nil {
			return ErrResponderRequired
		}
		reg.fallback = r
		return nil
	}
}

// NewRegistry builds a closed registry from entries. Every key must be a
// known category and every value non-nil.
func NewRegistry(entries map[core.Category]Responder, opts ...RegistryOption) (*Registry, error) {
	reg := &Registry{
		responders: make(map[core.Category]Responder, len(entries)),
		fallback:   Generic{},
	}
	for category, r := range entries {
		if !category.IsKnown() {
			return nil, fmt.Errorf("%w: %q", core.ErrUnknownCategory, category)
		}
		if r == nil {
			return nil, fmt.Errorf("%w: %q", ErrResponderRequired, category)
		}
		reg.responders[category] = r
	}
	for _, opt := range opts {
		if err := opt(reg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Lookup returns the responder for category, or the fallback.
func (r *Registry) Lookup(category core.Category) Responder {
	if resp, ok := r.responders[category]; ok {
		return resp
	}
	return r.fallback
}

// Categories lists the categories with a dedicated responder, sorted.
func (r *Registry) Categories() []core.Category {
	return slices.Sorted(maps.Keys(r.responders))
}
