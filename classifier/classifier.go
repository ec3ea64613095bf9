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

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/concierge/ai"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/index"
	"github.com/poiesic/concierge/textnorm"
)

const (
	// CriticalConfidence is reported for critical-term overrides.
	CriticalConfidence = 0.95

	// BusinessNameConfidence is reported for exact business-name mentions.
	BusinessNameConfidence = 0.9

	DefaultSemanticThreshold = 0.2
	DefaultKeywordMultiplier = 0.15
	DefaultKeywordBase       = 0.25

	maxKeywordConfidence = 0.9
)

// Classifier resolves a question to one category through a fixed sequence
// of stages: critical terms, business names, keyword patterns, semantic
// similarity and finally Unknown. The first stage to fire decides.
type Classifier struct {
	categories        *index.CategoryIndex
	names             *index.NameIndex
	embedder          ai.Embedder
	critical          []criticalTerm
	semanticThreshold float64
	keywordMultiplier float64
	keywordBase       float64
	monitor           Monitor
	logger            *slog.Logger
}

type criticalTerm struct {
	term     string // normalized
	category core.Category
	lang     core.Language
}

// Option configures a Classifier.
type Option func(*Classifier) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithMonitor installs classification hooks.
func WithMonitor(m Monitor) Option {
	return func(c *Classifier) error {
		if m == nil {
			m = &noopMonitor{}
		}
		c.monitor = m
		return nil
	}
}

// WithNameIndex enables the business-name stage.
func WithNameIndex(names *index.NameIndex) Option {
	return func(c *Classifier) error {
		c.names = names
		return nil
	}
}

// WithEmbedder enables the semantic stage for questions. Without it, or
// without category vectors, classification stops after the keyword stage.
func WithEmbedder(e ai.Embedder) Option {
	return func(c *Classifier) error {
		c.embedder = e
		return nil
	}
}

// WithCriticalTerms replaces the override terms for category in lang. An
// empty list removes the category's overrides for that language.
//
// The request language's terms are checked first, then the other
// languages', so a foreign override term in a question still wins.
func WithCriticalTerms(category core.Category, lang core.Language, terms []string) Option {
	return func(c *Classifier) error {
		if !category.IsKnown() {
			return fmt.Errorf("%w: %q", core.ErrUnknownCategory, category)
		}
		if !slices.Contains(core.SupportedLanguages, lang) {
			return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
		}
		c.critical = slices.DeleteFunc(slices.Clone(c.critical), func(ct criticalTerm) bool {
			return ct.category == category && ct.lang == lang
		})
		for _, t := range terms {
			if n := textnorm.Normalize(t); n != "" {
				c.critical = append(c.critical, criticalTerm{term: n, category: category, lang: lang})
			}
		}
		return nil
	}
}

// WithSemanticThreshold sets the score a semantic match must exceed.
// Default is 0.2.
func WithSemanticThreshold(threshold float64) Option {
	return func(c *Classifier) error {
		if threshold < 0 || threshold > 1 {
			return ErrInvalidThreshold
		}
		c.semanticThreshold = threshold
		return nil
	}
}

// WithKeywordWeights sets the keyword confidence formula
// clamp(multiplier*hits + base, base, 0.9). Defaults are 0.15 and 0.25.
func WithKeywordWeights(multiplier, base float64) Option {
	return func(c *Classifier) error {
		if multiplier < 0 || base < 0 || base > maxKeywordConfidence {
			return ErrInvalidKeywordWeights
		}
		c.keywordMultiplier = multiplier
		c.keywordBase = base
		return nil
	}
}

// New creates a classifier over a built category index.
func New(categories *index.CategoryIndex, opts ...Option) (*Classifier, error) {
	if categories == nil {
		return nil, ErrCategoryIndexRequired
	}

	c := &Classifier{
		categories:        categories,
		semanticThreshold: DefaultSemanticThreshold,
		keywordMultiplier: DefaultKeywordMultiplier,
		keywordBase:       DefaultKeywordBase,
		monitor:           &noopMonitor{},
		logger:            slog.Default(),
	}
	defaults := index.DefaultCriticalTerms()
	for _, lang := range core.SupportedLanguages {
		if err := WithCriticalTerms(core.CategoryImmigration, lang, defaults[lang])(c); err != nil {
			return nil, err
		}
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "classifier")
	return c, nil
}

// Classify runs the stages in order and returns the first result. It never
// fails: an unavailable embedding service only disables the semantic stage.
func (c *Classifier) Classify(ctx context.Context, question string, lang core.Language) core.ClassificationResult {
	c.monitor.Start(question, lang)
	result := c.classify(ctx, question, lang)
	c.monitor.Finish(result)
	c.logger.Debug("classified question",
		"category", result.Category,
		"confidence", result.Confidence,
		"stage", result.Stage,
		"matched", result.Matched)
	return result
}

func (c *Classifier) classify(ctx context.Context, question string, lang core.Language) core.ClassificationResult {
	normalized := textnorm.Normalize(question)

	if r, ok := c.criticalStage(normalized, lang); ok {
		return r
	}
	if r, ok := c.businessNameStage(normalized); ok {
		return r
	}
	if r, ok := c.keywordStage(normalized, lang); ok {
		return r
	}

	best, score, ok := c.semanticStage(ctx, question)
	if ok && score > c.semanticThreshold {
		return core.ClassificationResult{
			Category:   best,
			Confidence: clamp(score, 0, 1),
			Stage:      core.StageSemantic,
		}
	}
	return core.ClassificationResult{
		Category:   core.CategoryUnknown,
		Confidence: clamp(score, 0, 1),
		Stage:      core.StageUnknown,
	}
}

func (c *Classifier) criticalStage(normalized string, lang core.Language) (core.ClassificationResult, bool) {
	if normalized == "" {
		return core.ClassificationResult{}, false
	}
	if ct, ok := c.findCritical(normalized, func(l core.Language) bool { return l == lang }); ok {
		return c.criticalResult(ct), true
	}
	if ct, ok := c.findCritical(normalized, func(l core.Language) bool { return l != lang }); ok {
		return c.criticalResult(ct), true
	}
	return core.ClassificationResult{}, false
}

func (c *Classifier) findCritical(normalized string, inLang func(core.Language) bool) (criticalTerm, bool) {
	for _, ct := range c.critical {
		if inLang(ct.lang) && strings.Contains(normalized, ct.term) {
			return ct, true
		}
	}
	return criticalTerm{}, false
}

func (c *Classifier) criticalResult(ct criticalTerm) core.ClassificationResult {
	c.monitor.CriticalHit(ct.term, ct.category)
	return core.ClassificationResult{
		Category:   ct.category,
		Confidence: CriticalConfidence,
		Stage:      core.StageCritical,
		Matched:    ct.term,
	}
}

func (c *Classifier) businessNameStage(normalized string) (core.ClassificationResult, bool) {
	entry, ok := c.names.Match(normalized)
	if !ok {
		return core.ClassificationResult{}, false
	}
	c.monitor.BusinessNameHit(entry.Name, entry.Category)
	record := entry.Record
	return core.ClassificationResult{
		Category:   entry.Category,
		Confidence: BusinessNameConfidence,
		Record:     &record,
		Stage:      core.StageBusinessName,
		Matched:    entry.Name,
	}, true
}

func (c *Classifier) keywordStage(normalized string, lang core.Language) (core.ClassificationResult, bool) {
	counts, hits := c.categories.CountHits(normalized, lang)

	scores := make(map[core.Category]int, len(counts))
	bestIdx, bestCount := -1, 0
	for i, n := range counts {
		if n > 0 {
			scores[c.categories.Category(i)] = n
		}
		// strictly greater keeps the first category on ties
		if n > bestCount {
			bestIdx, bestCount = i, n
		}
	}
	c.monitor.KeywordScores(scores)

	if bestIdx < 0 {
		return core.ClassificationResult{}, false
	}
	return core.ClassificationResult{
		Category:   c.categories.Category(bestIdx),
		Confidence: c.KeywordConfidence(bestCount),
		Stage:      core.StageKeyword,
		Matched:    strings.Join(hits[bestIdx], ","),
	}, true
}

// semanticStage returns the arg-max category and its cosine score. ok is
// false when no score could be computed.
func (c *Classifier) semanticStage(ctx context.Context, question string) (core.Category, float64, bool) {
	if c.embedder == nil || !c.categories.Semantic() || strings.TrimSpace(question) == "" {
		return core.CategoryUnknown, 0, false
	}

	vec, err := c.embedQuestion(ctx, question)
	if err != nil || len(vec) == 0 {
		if err == nil {
			err = ErrEmbeddingUnavailable
		} else {
			err = fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
		}
		c.monitor.EmbeddingFailed(err)
		c.logger.Warn("question embedding failed, skipping semantic stage", "err", err)
		return core.CategoryUnknown, 0, false
	}

	i, score := ai.BestMatch(vec, c.categories.Vectors())
	if i < 0 {
		return core.CategoryUnknown, 0, false
	}
	category := c.categories.Category(i)
	c.monitor.SemanticScore(category, score)
	return category, score, true
}

// embedQuestion turns an embedder panic into an error.
func (c *Classifier) embedQuestion(ctx context.Context, question string) (vec []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			vec, err = nil, fmt.Errorf("embedder panicked: %v", r)
		}
	}()
	return c.embedder.EmbedText(ctx, question)
}

// KeywordConfidence maps a keyword hit count to a confidence. It is
// non-decreasing in hits and stays within [base, 0.9].
func (c *Classifier) KeywordConfidence(hits int) float64 {
	return clamp(c.keywordMultiplier*float64(hits)+c.keywordBase, c.keywordBase, maxKeywordConfidence)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
