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

// Package concierge wires the question-answering engine: directory
// backends, category and name indexes, the classifier, responders,
// editorial providers and the dispatcher.
package concierge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/concierge/ai"
	"github.com/poiesic/concierge/ai/openai"
	"github.com/poiesic/concierge/classifier"
	"github.com/poiesic/concierge/config"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/dispatch"
	"github.com/poiesic/concierge/editorial"
	"github.com/poiesic/concierge/index"
	"github.com/poiesic/concierge/responder"
	"github.com/poiesic/concierge/storage"
)

// ErrFeedsDisabled is returned by SyncFeeds when no feed is configured.
var ErrFeedsDisabled = errors.New("no editorial feeds configured")

type Engine struct {
	cfg        *config.Config
	provider   ai.Provider
	directory  *directory
	store      *storage.ResilientStore
	classifier *classifier.Classifier
	dispatcher *dispatch.Dispatcher
	feeds      *editorial.FeedLibrary
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	provider  ai.Provider
	sources   []storage.Source
	editorial editorial.Provider
	registry  *responder.Registry
	messages  *dispatch.Messages
	logger    *slog.Logger
}

// WithProvider supplies the embedding provider instead of building one
// from the configuration. The engine closes it.
func WithProvider(p ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = p
	}
}

// WithSources replaces the configured directory backends.
func WithSources(sources ...storage.Source) EngineOption {
	return func(o *engineOptions) {
		o.sources = sources
	}
}

// WithEditorial replaces the configured guide and feed providers.
func WithEditorial(p editorial.Provider) EngineOption {
	return func(o *engineOptions) {
		o.editorial = p
	}
}

// WithRegistry replaces the default responder registry.
func WithRegistry(r *responder.Registry) EngineOption {
	return func(o *engineOptions) {
		o.registry = r
	}
}

// WithMessages replaces the response message set.
func WithMessages(m *dispatch.Messages) EngineOption {
	return func(o *engineOptions) {
		o.messages = m
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine assembles an engine from cfg. A nil cfg uses config.Default.
// The directory is read once to build the business name index.
func NewEngine(ctx context.Context, cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	logger := options.logger

	e := &Engine{cfg: cfg, logger: logger.With("component", "engine")}
	ok := false
	defer func() {
		if !ok {
			e.Close()
		}
	}()

	e.provider = options.provider
	if e.provider == nil && cfg.Embedding.Enabled {
		p, err := openai.NewProvider(cfg.AIConfig())
		if err != nil {
			return nil, err
		}
		e.provider = p
	}
	var embedder ai.Embedder
	if e.provider != nil {
		embedder = e.provider.Embedder()
	}

	sources := options.sources
	if sources == nil {
		d, err := openDirectory(ctx, cfg.Directory, false, logger)
		if err != nil {
			return nil, err
		}
		e.directory = d
		sources = d.chain
	}
	store, err := storage.NewResilientStore(sources, storage.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	e.store = store

	records := store.GetAll(ctx)
	names := index.BuildNameIndex(records)

	categories, err := index.BuildCategoryIndex(ctx, embedder, index.DefaultKeywordTable(), index.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	classifierOpts := []classifier.Option{
		classifier.WithLogger(logger),
		classifier.WithNameIndex(names),
		classifier.WithSemanticThreshold(cfg.Classifier.SemanticThreshold),
		classifier.WithKeywordWeights(cfg.Classifier.KeywordMultiplier, cfg.Classifier.KeywordBase),
	}
	if embedder != nil {
		classifierOpts = append(classifierOpts, classifier.WithEmbedder(embedder))
	}
	e.classifier, err = classifier.New(categories, classifierOpts...)
	if err != nil {
		return nil, err
	}

	provider := options.editorial
	if provider == nil {
		provider, err = e.openEditorial(cfg.Editorial, logger)
		if err != nil {
			return nil, err
		}
	}

	registry := options.registry
	if registry == nil {
		registry = responder.DefaultRegistry()
	}

	e.dispatcher, err = dispatch.New(e.classifier, store, registry,
		dispatch.WithLogger(logger),
		dispatch.WithEditorial(provider),
		dispatch.WithMessages(options.messages),
		dispatch.WithMaxLimit(cfg.Dispatch.MaxLimit),
		dispatch.WithCandidateAliases(core.CategoryImmigration, core.CategoryLegalAndFinancial))
	if err != nil {
		return nil, err
	}

	e.logger.Info("engine ready", "sources", len(sources), "records", len(records), "names", names.Len(), "semantic", categories.Semantic())
	ok = true
	return e, nil
}

func (e *Engine) openEditorial(cfg config.EditorialConfig, logger *slog.Logger) (editorial.Provider, error) {
	var providers []editorial.Provider
	if cfg.GuidesDir != "" {
		guides, err := editorial.LoadGuides(cfg.GuidesDir, logger)
		if err != nil {
			return nil, err
		}
		providers = append(providers, guides)
	}
	if len(cfg.Feeds) > 0 {
		feeds, err := newFeedLibrary(cfg, logger)
		if err != nil {
			return nil, err
		}
		loadFeedCache(feeds, cfg.CacheFile, logger)
		e.feeds = feeds
		providers = append(providers, feeds)
	}
	if len(providers) == 0 {
		return nil, nil
	}
	return editorial.NewMulti(logger, providers...), nil
}

func newFeedLibrary(cfg config.EditorialConfig, logger *slog.Logger) (*editorial.FeedLibrary, error) {
	return editorial.NewFeedLibrary(cfg.Feeds,
		editorial.WithLogger(logger),
		editorial.WithMaxPerFeed(cfg.MaxPerFeed),
		editorial.WithMaxArticles(cfg.MaxArticles),
		editorial.WithSearchLimit(cfg.SearchLimit))
}

// loadFeedCache fills feeds from the article cache. A broken cache only
// costs editorial references, so it is logged and skipped.
func loadFeedCache(feeds *editorial.FeedLibrary, path string, logger *slog.Logger) {
	if path == "" {
		return
	}
	if _, err := feeds.LoadCache(path); err != nil {
		logger.Warn("article cache unavailable", "path", path, "err", err)
	}
}

// syncFeeds fetches the feeds and persists the merged articles.
func syncFeeds(ctx context.Context, feeds *editorial.FeedLibrary, path string) (int, error) {
	added, err := feeds.Sync(ctx)
	if err != nil {
		return 0, err
	}
	if path != "" {
		if err := feeds.SaveCache(path); err != nil {
			return added, fmt.Errorf("failed to save article cache: %w", err)
		}
	}
	return added, nil
}

// Ask answers a question.
func (e *Engine) Ask(ctx context.Context, req core.QueryRequest) core.QueryResponse {
	return e.dispatcher.Dispatch(ctx, req)
}

// Classify routes a question without fetching candidates.
func (e *Engine) Classify(ctx context.Context, question string, lang core.Language) core.ClassificationResult {
	return e.classifier.Classify(ctx, question, core.ParseLanguage(string(lang)))
}

// Store returns the directory the engine reads from.
func (e *Engine) Store() storage.DirectoryStore {
	return e.store
}

// SyncFeeds refreshes the engine's articles and saves them to the
// configured cache file. It returns the number of new articles.
func (e *Engine) SyncFeeds(ctx context.Context) (int, error) {
	if e.feeds == nil {
		return 0, ErrFeedsDisabled
	}
	return syncFeeds(ctx, e.feeds, e.cfg.Editorial.CacheFile)
}

// Close releases the provider and any opened directory backends.
func (e *Engine) Close() error {
	var errs []error
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if e.directory != nil {
		if err := e.directory.Close(); err != nil {
			e.logger.Error("error closing directory backends", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SyncFeeds fetches the configured feeds, merges them into the article
// cache and reports how many new articles were found. Engines pick the
// cache up when they start.
func SyncFeeds(ctx context.Context, cfg *config.Config) (int, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if len(cfg.Editorial.Feeds) == 0 {
		return 0, ErrFeedsDisabled
	}
	logger := slog.Default()
	feeds, err := newFeedLibrary(cfg.Editorial, logger)
	if err != nil {
		return 0, err
	}
	loadFeedCache(feeds, cfg.Editorial.CacheFile, logger)
	return syncFeeds(ctx, feeds, cfg.Editorial.CacheFile)
}
