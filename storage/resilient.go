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

package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/concierge/core"
)

// ResilientStore serves DirectoryStore reads from an ordered list of
// sources. The first source to return records wins; failures and panics
// are logged and the next source is tried.
type ResilientStore struct {
	sources []Source
	logger  *slog.Logger
}

var _ DirectoryStore = (*ResilientStore)(nil)

// ResilientOption configures a ResilientStore.
type ResilientOption func(*ResilientStore) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ResilientOption {
	return func(s *ResilientStore) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewResilientStore creates a store over sources, tried in order.
func NewResilientStore(sources []Source, opts ...ResilientOption) (*ResilientStore, error) {
	var kept []Source
	for _, src := range sources {
		if src != nil {
			kept = append(kept, src)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoSources
	}

	s := &ResilientStore{sources: kept, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "directory-store")
	return s, nil
}

// GetByCategory implements DirectoryStore.
func (s *ResilientStore) GetByCategory(ctx context.Context, category core.Category) []core.Record {
	if category == core.CategoryUnknown || category == "" {
		return []core.Record{}
	}
	return s.fetch(ctx, "category", func(src Source) ([]core.Record, error) {
		return src.FetchCategory(ctx, category)
	})
}

// GetAll implements DirectoryStore.
func (s *ResilientStore) GetAll(ctx context.Context) []core.Record {
	return s.fetch(ctx, "all", func(src Source) ([]core.Record, error) {
		return src.FetchAll(ctx)
	})
}

func (s *ResilientStore) fetch(ctx context.Context, op string, call func(Source) ([]core.Record, error)) []core.Record {
	for _, src := range s.sources {
		if ctx.Err() != nil {
			break
		}
		records, err := safeCall(src, call)
		if err != nil {
			s.logger.Warn("directory source failed", "source", src.Name(), "op", op, "err", err)
			continue
		}
		if len(records) == 0 {
			s.logger.Debug("directory source returned no records", "source", src.Name(), "op", op)
			continue
		}
		out := make([]core.Record, len(records))
		for i, r := range records {
			out[i] = EnsureID(r.Clone())
		}
		return out
	}
	return []core.Record{}
}

func safeCall(src Source, call func(Source) ([]core.Record, error)) (records []core.Record, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrSourceUnavailable, p)
		}
	}()
	return call(src)
}

// Sources returns the configured sources in order.
func (s *ResilientStore) Sources() []Source {
	return append([]Source(nil), s.sources...)
}
