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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/concierge/ai"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/textnorm"
)

// CategoryIndex holds the keyword table and one embedding per category.
// It is immutable after BuildCategoryIndex returns and safe for concurrent reads.
type CategoryIndex struct {
	table        KeywordTable
	names        []core.Category
	descriptions []string
	vectors      [][]float32 // parallel to names; nil when embeddings are unavailable
	patterns     map[core.Language][][]string
}

// Option configures BuildCategoryIndex.
type Option func(*buildConfig) error

type buildConfig struct {
	poolSize int
	logger   *slog.Logger
}

// WithPoolSize sets how many category descriptions are embedded concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(c *buildConfig) error {
		if size < 1 {
			size = 1
		}
		c.poolSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *buildConfig) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// BuildCategoryIndex validates table and embeds one descriptive sentence per
// category. A nil embedder or a failed embedding pass yields a keyword-only
// index (Semantic reports false); only a malformed table is an error.
func BuildCategoryIndex(ctx context.Context, embedder ai.Embedder, table KeywordTable, opts ...Option) (*CategoryIndex, error) {
	cfg := &buildConfig{
		poolSize: max(runtime.NumCPU()/2, 1),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	logger := cfg.logger.With("component", "category-index")

	if err := validateTable(table); err != nil {
		return nil, err
	}

	idx := &CategoryIndex{
		table:        table,
		names:        table.Categories(),
		descriptions: make([]string, len(table)),
		patterns:     make(map[core.Language][][]string, len(core.SupportedLanguages)),
	}
	for _, lang := range core.SupportedLanguages {
		idx.patterns[lang] = make([][]string, len(table))
	}
	for i, row := range table {
		idx.descriptions[i] = describe(row)
		for _, lang := range core.SupportedLanguages {
			normalized := make([]string, 0, len(row.Patterns[lang]))
			for _, p := range row.Patterns[lang] {
				if n := textnorm.Normalize(p); n != "" {
					normalized = append(normalized, n)
				}
			}
			idx.patterns[lang][i] = normalized
		}
	}

	if embedder == nil {
		logger.Info("no embedder configured, semantic stage disabled")
		return idx, nil
	}

	vectors, err := embedAll(ctx, embedder, idx.descriptions, cfg.poolSize)
	if err != nil {
		logger.Warn("category embeddings unavailable, semantic stage disabled", "err", err)
		return idx, nil
	}
	idx.vectors = vectors
	logger.Debug("category index built", "categories", len(idx.names), "dimension", len(vectors[0]))
	return idx, nil
}

func validateTable(table KeywordTable) error {
	if len(table) == 0 {
		return ErrEmptyTable
	}
	seen := make(map[core.Category]struct{}, len(table))
	for _, row := range table {
		if !row.Category.IsKnown() {
			return fmt.Errorf("%w: %q", ErrInvalidCategory, row.Category)
		}
		if _, dup := seen[row.Category]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, row.Category)
		}
		seen[row.Category] = struct{}{}
	}
	return nil
}

// describe builds the sentence embedded for a category from its keywords in
// every supported language.
func describe(row CategoryPatterns) string {
	var keywords []string
	for _, lang := range core.SupportedLanguages {
		keywords = append(keywords, row.Patterns[lang]...)
	}
	return "Servicios sobre " + strings.ToLower(string(row.Category)) + ": " + strings.Join(keywords, ", ")
}

func embedAll(ctx context.Context, embedder ai.Embedder, texts []string, poolSize int) ([][]float32, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	vectors := make([][]float32, len(texts))
	errs := make([]error, len(texts))
	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			vectors[i], errs[i] = embedder.EmbedText(ctx, text)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 || len(v) != dim {
			return nil, fmt.Errorf("category %d: unexpected embedding dimension %d", i, len(v))
		}
	}
	return vectors, nil
}

// Len returns the number of categories.
func (c *CategoryIndex) Len() int {
	return len(c.names)
}

// Categories returns the category names in table order.
func (c *CategoryIndex) Categories() []core.Category {
	return append([]core.Category(nil), c.names...)
}

// Category returns the i-th category.
func (c *CategoryIndex) Category(i int) core.Category {
	return c.names[i]
}

// Description returns the sentence embedded for the i-th category.
func (c *CategoryIndex) Description(i int) string {
	return c.descriptions[i]
}

// Semantic reports whether category vectors are available.
func (c *CategoryIndex) Semantic() bool {
	return len(c.vectors) == len(c.names) && len(c.vectors) > 0
}

// Vectors returns the category vectors parallel to Categories.
// Callers must not modify the returned slices.
func (c *CategoryIndex) Vectors() [][]float32 {
	return c.vectors
}

// Table returns the keyword table the index was built from.
func (c *CategoryIndex) Table() KeywordTable {
	return c.table
}

// Patterns returns the normalized patterns for lang, parallel to Categories.
// Unsupported languages fall back to core.DefaultLanguage.
func (c *CategoryIndex) Patterns(lang core.Language) [][]string {
	if p, ok := c.patterns[lang]; ok {
		return p
	}
	return c.patterns[core.DefaultLanguage]
}

// CountHits returns, per category in table order, how many of the lang
// patterns occur in normalizedQuestion, and the patterns that hit.
func (c *CategoryIndex) CountHits(normalizedQuestion string, lang core.Language) ([]int, [][]string) {
	patterns := c.Patterns(lang)
	counts := make([]int, len(patterns))
	hits := make([][]string, len(patterns))
	if normalizedQuestion == "" {
		return counts, hits
	}
	for i, row := range patterns {
		for _, p := range row {
			if strings.Contains(normalizedQuestion, p) {
				counts[i]++
				hits[i] = append(hits[i], p)
			}
		}
	}
	return counts, hits
}
