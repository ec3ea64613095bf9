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

package editorial

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/concierge/core"
)

// Provider searches editorial content.
type Provider interface {
	// Search returns summaries ranked by relevance to keywords and
	// category, best first.
	Search(ctx context.Context, keywords []string, category core.Category) ([]core.GuideSummary, error)
}

// Multi queries providers in order and concatenates their results. A
// failing provider is logged and skipped.
type Multi struct {
	providers []Provider
	logger    *slog.Logger
}

var _ Provider = (*Multi)(nil)

// NewMulti chains providers. Nil entries are dropped.
func NewMulti(logger *slog.Logger, providers ...Provider) *Multi {
	if logger == nil {
		logger = slog.Default()
	}
	return &Multi{
		providers: slices.DeleteFunc(slices.Clone(providers), func(p Provider) bool { return p == nil }),
		logger:    logger.With("component", "editorial"),
	}
}

// Search implements Provider.
func (m *Multi) Search(ctx context.Context, keywords []string, category core.Category) ([]core.GuideSummary, error) {
	var out []core.GuideSummary
	for i, p := range m.providers {
		found, err := safeSearch(ctx, p, keywords, category)
		if err != nil {
			m.logger.Warn("editorial provider failed", "provider", i, "err", err)
			continue
		}
		out = append(out, found...)
	}
	return out, nil
}

func safeSearch(ctx context.Context, p Provider, keywords []string, category core.Category) (found []core.GuideSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
	}()
	return p.Search(ctx, keywords, category)
}
