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

// Package dispatch answers a question end to end: classify it, gather
// candidate records, hand them to the category responder and page the
// result.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/editorial"
	"github.com/poiesic/concierge/pagination"
	"github.com/poiesic/concierge/responder"
	"github.com/poiesic/concierge/storage"
	"github.com/poiesic/concierge/textnorm"
)

const (
	// DefaultMaxLimit caps the page size a caller may request.
	DefaultMaxLimit = 50

	maxEditorialRefs         = 2
	minEditorialKeywordRunes = 4
)

// Classifier routes a question to a category.
type Classifier interface {
	Classify(ctx context.Context, question string, lang core.Language) core.ClassificationResult
}

// Dispatcher runs the request pipeline. It is safe for concurrent use.
type Dispatcher struct {
	classifier Classifier
	store      storage.DirectoryStore
	registry   *responder.Registry
	editorial  editorial.Provider
	messages   *Messages
	aliases    map[core.Category][]core.Category
	maxLimit   int
	logger     *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// WithEditorial attaches an editorial provider. Without one responses
// carry no editorial references.
func WithEditorial(p editorial.Provider) Option {
	return func(d *Dispatcher) error {
		d.editorial = p
		return nil
	}
}

// WithMessages replaces the message set, typically to pin its random
// source in tests.
func WithMessages(m *Messages) Option {
	return func(d *Dispatcher) error {
		if m != nil {
			d.messages = m
		}
		return nil
	}
}

// WithMaxLimit sets the largest page size served.
// Default is 50.
func WithMaxLimit(n int) Option {
	return func(d *Dispatcher) error {
		if n <= 0 {
			return ErrInvalidMaxLimit
		}
		d.maxLimit = n
		return nil
	}
}

// WithCandidateAliases makes requests classified as category also draw
// candidates from extra categories, after its own records.
func WithCandidateAliases(category core.Category, extra ...core.Category) Option {
	return func(d *Dispatcher) error {
		for _, c := range append([]core.Category{category}, extra...) {
			if !c.IsKnown() {
				return fmt.Errorf("%w: %q", core.ErrUnknownCategory, c)
			}
		}
		d.aliases[category] = slices.Clone(extra)
		return nil
	}
}

// New creates a Dispatcher.
func New(classifier Classifier, store storage.DirectoryStore, registry *responder.Registry, opts ...Option) (*Dispatcher, error) {
	if classifier == nil {
		return nil, ErrClassifierRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	d := &Dispatcher{
		classifier: classifier,
		store:      store,
		registry:   registry,
		aliases:    make(map[core.Category][]core.Category),
		maxLimit:   DefaultMaxLimit,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if d.messages == nil {
		d.messages = NewMessages(nil)
	}
	d.logger = d.logger.With("component", "dispatcher")
	return d, nil
}

// Dispatch answers one request. It never fails: responder errors and
// panics degrade to an empty answer in the classified category, and a
// panicking classifier degrades to Unknown.
func (d *Dispatcher) Dispatch(ctx context.Context, req core.QueryRequest) core.QueryResponse {
	lang := core.ParseLanguage(string(req.Language))
	logger := d.logger.With("request_id", uuid.NewString(), "lang", lang)

	result := d.classify(ctx, req.Question, lang, logger)
	logger.Debug("classified", "category", result.Category, "confidence", result.Confidence, "stage", result.Stage)

	candidates := d.candidates(ctx, result.Category, logger)
	if result.Record != nil {
		candidates = prependDirect(candidates, *result.Record)
	}

	answer, err := d.respond(ctx, result.Category, req.Question, candidates, lang)
	failed := err != nil
	if failed {
		logger.Error("responder failed", "category", result.Category, "err", err)
		answer = responder.Result{}
	}

	page := pagination.Paginate(answer.Items, pagination.ClampLimit(req.Limit, d.maxLimit), req.Offset)
	refs := d.editorialRefs(ctx, req.Question, result.Category, logger)

	var message string
	if failed {
		message = d.messages.Failure(lang, result.Category)
	} else {
		message = d.messages.Pick(lang, result.Category)
		if title, ok := topGuide(refs); ok {
			message += d.messages.GuideHint(lang, title)
		}
	}

	summary := answer.SummaryPoints
	if summary == nil {
		summary = []core.SummaryPoint{}
	}

	logger.Info("dispatched", "category", result.Category, "stage", result.Stage, "total", page.Total, "returned", len(page.Items))
	return core.QueryResponse{
		Message:       message,
		Category:      result.Category,
		Confidence:    result.Confidence,
		Stage:         result.Stage,
		SummaryPoints: summary,
		Items:         page.Items,
		Total:         page.Total,
		HasMore:       page.HasMore,
		NextOffset:    page.NextOffset,
		EditorialRefs: refs,
	}
}

func (d *Dispatcher) candidates(ctx context.Context, category core.Category, logger *slog.Logger) []core.Record {
	if category == core.CategoryUnknown || !category.IsKnown() {
		return []core.Record{}
	}

	var out []core.Record
	seen := make(map[core.ID]bool)
	for _, c := range append([]core.Category{category}, d.aliases[category]...) {
		for _, r := range d.fetch(ctx, c, logger) {
			if r.ID != 0 && seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			out = append(out, r)
		}
	}
	if out == nil {
		out = []core.Record{}
	}
	return out
}

// classify degrades a panicking classifier to Unknown.
func (d *Dispatcher) classify(ctx context.Context, question string, lang core.Language, logger *slog.Logger) (result core.ClassificationResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("classifier panicked", "panic", r)
			result = core.ClassificationResult{Category: core.CategoryUnknown, Stage: core.StageUnknown}
		}
	}()
	return d.classifier.Classify(ctx, question, lang)
}

func (d *Dispatcher) fetch(ctx context.Context, category core.Category, logger *slog.Logger) (records []core.Record) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("directory store panicked", "category", category, "panic", r)
			records = nil
		}
	}()
	return d.store.GetByCategory(ctx, category)
}

func (d *Dispatcher) respond(ctx context.Context, category core.Category, question string, candidates []core.Record, lang core.Language) (res responder.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrHandlerFailure, r)
		}
	}()
	res, err = d.registry.Lookup(category).Respond(ctx, question, candidates, lang)
	if err != nil {
		return responder.Result{}, fmt.Errorf("%w: %w", ErrHandlerFailure, err)
	}
	return res, nil
}

func (d *Dispatcher) editorialRefs(ctx context.Context, question string, category core.Category, logger *slog.Logger) (refs []core.GuideSummary) {
	refs = []core.GuideSummary{}
	if d.editorial == nil {
		return refs
	}
	keywords := EditorialKeywords(question)
	if len(keywords) == 0 {
		return refs
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("editorial search panicked", "panic", r)
			refs = []core.GuideSummary{}
		}
	}()
	found, err := d.editorial.Search(ctx, keywords, category)
	if err != nil {
		logger.Warn("editorial search failed", "err", err)
		return refs
	}
	return append(refs, found[:min(len(found), maxEditorialRefs)]...)
}

// EditorialKeywords lowercases question and keeps the words longer than
// three characters, with surrounding punctuation trimmed.
func EditorialKeywords(question string) []string {
	var keywords []string
	for _, field := range strings.Fields(strings.ToLower(question)) {
		w := strings.TrimFunc(field, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if utf8.RuneCountInString(w) >= minEditorialKeywordRunes {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

func topGuide(refs []core.GuideSummary) (string, bool) {
	for _, ref := range refs {
		if ref.Type == core.GuideTypeGuide && ref.Title != "" {
			return ref.Title, true
		}
	}
	return "", false
}

// prependDirect puts the named record first unless it is already among
// the candidates, compared by ID and then by normalized name.
func prependDirect(candidates []core.Record, direct core.Record) []core.Record {
	name := textnorm.Normalize(direct.Name)
	for _, c := range candidates {
		if direct.ID != 0 && c.ID == direct.ID {
			return candidates
		}
		if name != "" && textnorm.Normalize(c.Name) == name {
			return candidates
		}
	}
	return append([]core.Record{direct.Clone()}, candidates...)
}
