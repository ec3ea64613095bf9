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
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/concierge/core"
)

const (
	DefaultMaxPerFeed    = 50
	DefaultMaxArticles   = 1000
	DefaultSearchLimit   = 5
	maxDescriptionRunes  = 500
	minFeedKeywordLength = 3
)

// Article is a cached feed entry.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description,omitempty"`
	Categories  []string  `json:"categories,omitempty"`
	Feed        string    `json:"feed,omitempty"`
	Published   time.Time `json:"published"`
}

// feedCache is the on-disk form of a FeedLibrary.
type feedCache struct {
	SyncedAt time.Time `json:"synced_at"`
	Articles []Article `json:"articles"`
}

func (a Article) searchText() string {
	return strings.ToLower(a.Title + " " + a.Description + " " + strings.Join(a.Categories, " "))
}

// FeedLibrary keeps a rolling, deduplicated cache of feed articles.
type FeedLibrary struct {
	urls        []string
	client      *http.Client
	logger      *slog.Logger
	poolSize    int
	maxPerFeed  int
	maxArticles int
	limit       int

	mu       sync.RWMutex
	articles []Article
}

var _ Provider = (*FeedLibrary)(nil)

// FeedOption configures a FeedLibrary.
type FeedOption func(*FeedLibrary) error

// WithHTTPClient sets the client used to fetch feeds.
func WithHTTPClient(client *http.Client) FeedOption {
	return func(l *FeedLibrary) error {
		if client == nil {
			return errors.New("http client cannot be nil")
		}
		l.client = client
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) FeedOption {
	return func(l *FeedLibrary) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// WithPoolSize sets how many feeds are fetched concurrently.
func WithPoolSize(size int) FeedOption {
	return func(l *FeedLibrary) error {
		if size <= 0 {
			return fmt.Errorf("pool size must be positive, got %d", size)
		}
		l.poolSize = size
		return nil
	}
}

// WithMaxPerFeed caps the entries taken from each feed per sync.
func WithMaxPerFeed(n int) FeedOption {
	return func(l *FeedLibrary) error {
		if n <= 0 {
			return fmt.Errorf("max per feed must be positive, got %d", n)
		}
		l.maxPerFeed = n
		return nil
	}
}

// WithMaxArticles caps the cache size. The oldest articles go first.
func WithMaxArticles(n int) FeedOption {
	return func(l *FeedLibrary) error {
		if n <= 0 {
			return fmt.Errorf("max articles must be positive, got %d", n)
		}
		l.maxArticles = n
		return nil
	}
}

// WithSearchLimit caps the results of one Search.
func WithSearchLimit(n int) FeedOption {
	return func(l *FeedLibrary) error {
		if n <= 0 {
			return fmt.Errorf("search limit must be positive, got %d", n)
		}
		l.limit = n
		return nil
	}
}

// NewFeedLibrary creates an empty library for urls. Call Sync to fill it.
func NewFeedLibrary(urls []string, opts ...FeedOption) (*FeedLibrary, error) {
	urls = slices.DeleteFunc(slices.Clone(urls), func(u string) bool { return strings.TrimSpace(u) == "" })
	if len(urls) == 0 {
		return nil, ErrNoFeeds
	}
	l := &FeedLibrary{
		urls:        urls,
		client:      &http.Client{Timeout: 15 * time.Second},
		logger:      slog.Default(),
		poolSize:    4,
		maxPerFeed:  DefaultMaxPerFeed,
		maxArticles: DefaultMaxArticles,
		limit:       DefaultSearchLimit,
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "feeds")
	return l, nil
}

// Len returns the number of cached articles.
func (l *FeedLibrary) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.articles)
}

// Articles returns a copy of the cache, newest first.
func (l *FeedLibrary) Articles() []Article {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.articles)
}

// Sync fetches every feed concurrently and merges new entries into the
// cache. It returns the number of articles added. Sync fails only when
// every feed fails.
func (l *FeedLibrary) Sync(ctx context.Context) (int, error) {
	pool, err := ants.NewPool(min(l.poolSize, len(l.urls)))
	if err != nil {
		return 0, err
	}
	defer pool.Release()

	results := make([][]Article, len(l.urls))
	errs := make([]error, len(l.urls))
	var wg sync.WaitGroup
	for i, url := range l.urls {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = l.fetch(ctx, url)
		})
		if submitErr != nil {
			errs[i] = submitErr
			wg.Done()
		}
	}
	wg.Wait()

	var failed []error
	var fetched []Article
	for i, err := range errs {
		if err != nil {
			l.logger.Warn("feed sync failed", "url", l.urls[i], "err", err)
			failed = append(failed, err)
			continue
		}
		fetched = append(fetched, results[i]...)
	}
	if len(failed) == len(l.urls) {
		return 0, errors.Join(failed...)
	}

	added := l.merge(fetched)
	l.logger.Info("feeds synced", "new", added, "total", l.Len())
	return added, nil
}

func (l *FeedLibrary) fetch(ctx context.Context, url string) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrFeedUnavailable, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}

	now := time.Now().UTC()
	items := feed.Items[:min(len(feed.Items), l.maxPerFeed)]
	articles := make([]Article, 0, len(items))
	for _, item := range items {
		if item.Link == "" {
			continue
		}
		published := now
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		} else if item.UpdatedParsed != nil {
			published = item.UpdatedParsed.UTC()
		}
		articles = append(articles, Article{
			Title:       strings.TrimSpace(item.Title),
			Link:        item.Link,
			Description: truncateRunes(strings.TrimSpace(cmp.Or(item.Description, item.Content)), maxDescriptionRunes),
			Categories:  slices.Clone(item.Categories),
			Feed:        feed.Title,
			Published:   published,
		})
	}
	return articles, nil
}

func (l *FeedLibrary) merge(fetched []Article) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	known := make(map[string]bool, len(l.articles))
	for _, a := range l.articles {
		known[a.Link] = true
	}
	added := 0
	for _, a := range fetched {
		if known[a.Link] {
			continue
		}
		known[a.Link] = true
		l.articles = append(l.articles, a)
		added++
	}

	slices.SortStableFunc(l.articles, func(a, b Article) int {
		return b.Published.Compare(a.Published)
	})
	if len(l.articles) > l.maxArticles {
		l.articles = l.articles[:l.maxArticles]
	}
	return added
}

// SaveCache writes the cached articles to path. The file is replaced
// atomically so a concurrent LoadCache never sees a partial write.
func (l *FeedLibrary) SaveCache(path string) error {
	l.mu.RLock()
	data, err := json.MarshalIndent(feedCache{SyncedAt: time.Now().UTC(), Articles: l.articles}, "", "  ")
	count := len(l.articles)
	l.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".articles-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	l.logger.Debug("feed cache saved", "path", path, "articles", count)
	return nil
}

// LoadCache merges the articles saved at path and returns how many were
// added. A missing file is an empty cache.
func (l *FeedLibrary) LoadCache(path string) (int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var cache feedCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidCache, path, err)
	}
	articles := slices.DeleteFunc(cache.Articles, func(a Article) bool { return a.Link == "" })
	added := l.merge(articles)
	l.logger.Info("feed cache loaded", "path", path, "articles", added, "synced_at", cache.SyncedAt)
	return added, nil
}

// Search counts how many distinct keywords (3 or more characters) occur
// in each article's title, description and categories, and returns the
// best matches up to the search limit.
func (l *FeedLibrary) Search(_ context.Context, keywords []string, _ core.Category) ([]core.GuideSummary, error) {
	var needles []string
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if utf8.RuneCountInString(kw) >= minFeedKeywordLength && !slices.Contains(needles, kw) {
			needles = append(needles, kw)
		}
	}
	if len(needles) == 0 {
		return nil, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []core.GuideSummary
	for _, a := range l.articles {
		text := a.searchText()
		score := 0
		for _, kw := range needles {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > 0 {
			out = append(out, core.GuideSummary{
				Type:    core.GuideTypeArticle,
				Title:   a.Title,
				Summary: a.Description,
				URL:     a.Link,
				Score:   score,
			})
		}
	}
	slices.SortStableFunc(out, func(a, b core.GuideSummary) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out[:min(len(out), l.limit)], nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
