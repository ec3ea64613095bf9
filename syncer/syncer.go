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

// Package syncer copies an upstream directory into a local snapshot.
package syncer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/retry"
	"github.com/poiesic/concierge/storage"
)

// Config holds configuration for a sync run.
type Config struct {
	// Categories are fetched one batch each, in order.
	Categories []core.Category

	// ReportInterval is how often to report progress (number of categories)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per category
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config covering the full category set.
func DefaultConfig() *Config {
	return &Config{
		Categories:     core.Categories(),
		ReportInterval: 1,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Stats summarizes a completed run.
type Stats struct {
	Records    int
	Categories map[core.Category]int
	Elapsed    time.Duration
}

// Syncer copies every category from an upstream Source into a Sink.
type Syncer struct {
	source   storage.Source
	sink     storage.Sink
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewSyncer creates a new syncer.
// progress: where to write progress output (typically os.Stderr)
func NewSyncer(source storage.Source, sink storage.Sink, config *Config, progress io.Writer) (*Syncer, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	if sink == nil {
		return nil, ErrSinkRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if len(config.Categories) == 0 {
		config.Categories = core.Categories()
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 1
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Syncer{
		source:   source,
		sink:     sink,
		config:   config,
		progress: progress,
		logger:   slog.Default().With("component", "syncer", "source", source.Name()),
	}, nil
}

// Run fetches each category with retry, then replaces the sink contents
// in one step. A category that still fails after retrying aborts the run
// so a partial directory never overwrites a good snapshot.
func (s *Syncer) Run(ctx context.Context) (*Stats, error) {
	total := len(s.config.Categories)
	fmt.Fprintf(s.progress, "Syncing %d categories from %s\n", total, s.source.Name())

	tracker := NewProgressTracker(s.progress, total, s.config.ReportInterval)
	tracker.Start()

	stats := &Stats{Categories: make(map[core.Category]int, total)}
	var records []core.Record
	seen := make(map[core.ID]bool)

	for _, category := range s.config.Categories {
		batch, err := s.fetchCategory(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch category %q: %w", category, err)
		}

		for _, r := range batch {
			if r.Category == "" {
				r.Category = category
			}
			r = storage.EnsureID(r)
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			records = append(records, r)
			stats.Categories[category]++
		}
		tracker.Increment(1)
	}
	tracker.Finish()

	if len(records) == 0 {
		return nil, ErrEmptyDirectory
	}

	if err := s.sink.Replace(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}

	stats.Records = len(records)
	stats.Elapsed = tracker.Elapsed()
	s.logger.Info("directory synced", "records", stats.Records, "elapsed", stats.Elapsed)
	fmt.Fprintf(s.progress, "Synced %d records in %v\n", stats.Records, stats.Elapsed.Round(time.Millisecond))
	return stats, nil
}

func (s *Syncer) fetchCategory(ctx context.Context, category core.Category) ([]core.Record, error) {
	var batch []core.Record
	err := retry.WithBackoff(ctx, func() error {
		var err error
		batch, err = s.source.FetchCategory(ctx, category)
		if err != nil {
			s.logger.Debug("category fetch failed", "category", category, "err", err)
		}
		return err
	}, s.config.MaxRetries, s.config.RetryDelay)
	return batch, err
}
