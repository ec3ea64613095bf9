// Package api reads directory records from the magazine's HTTP API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/retry"
	"github.com/poiesic/concierge/storage"
)

const (
	DefaultTimeout   = 5 * time.Second
	DefaultRetries   = 2
	DefaultPageLimit = 500

	retryBaseDelay = 200 * time.Millisecond
	maxBodyBytes   = 16 << 20
)

// Source fetches records from GET {base}/advertisers.
type Source struct {
	baseURL string
	apiKey  string
	retries int
	limit   int
	client  *http.Client
	logger  *slog.Logger
}

var _ storage.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source) error

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) Option {
	return func(s *Source) error {
		s.apiKey = key
		return nil
	}
}

// WithTimeout sets the per-request timeout. Default is 5s.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) error {
		if d <= 0 {
			d = DefaultTimeout
		}
		s.client.Timeout = d
		return nil
	}
}

// WithRetries sets how many times a failed request is retried. Default is 2.
func WithRetries(n int) Option {
	return func(s *Source) error {
		s.retries = max(n, 0)
		return nil
	}
}

// WithPageLimit sets the limit query parameter. Default is 500.
func WithPageLimit(n int) Option {
	return func(s *Source) error {
		if n > 0 {
			s.limit = n
		}
		return nil
	}
}

// WithHTTPClient replaces the HTTP client. Its timeout is kept as-is.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) error {
		if c != nil {
			s.client = c
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSource creates an API source rooted at baseURL.
func NewSource(baseURL string, opts ...Option) (*Source, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if _, err := url.ParseRequestURI(base); err != nil || base == "" {
		return nil, fmt.Errorf("invalid directory API url %q", baseURL)
	}

	s := &Source{
		baseURL: base,
		retries: DefaultRetries,
		limit:   DefaultPageLimit,
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "directory-api")
	return s, nil
}

// Name implements storage.Source.
func (s *Source) Name() string {
	return "api"
}

// FetchCategory implements storage.Source.
func (s *Source) FetchCategory(ctx context.Context, category core.Category) ([]core.Record, error) {
	return s.fetch(ctx, category)
}

// FetchAll implements storage.Source.
func (s *Source) FetchAll(ctx context.Context) ([]core.Record, error) {
	return s.fetch(ctx, "")
}

type advertisersResponse struct {
	Advertisers []storage.WireRecord `json:"advertisers"`
}

func (s *Source) fetch(ctx context.Context, category core.Category) ([]core.Record, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", string(category))
	}
	q.Set("limit", strconv.Itoa(s.limit))
	endpoint := s.baseURL + "/advertisers?" + q.Encode()

	var payload advertisersResponse
	err := retry.WithBackoff(ctx, func() error {
		payload = advertisersResponse{}
		return s.get(ctx, endpoint, &payload)
	}, s.retries+1, retryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSourceUnavailable, err)
	}

	records := make([]core.Record, 0, len(payload.Advertisers))
	for _, w := range payload.Advertisers {
		records = append(records, w.Record(category))
	}
	s.logger.Debug("fetched advertisers", "category", category, "count", len(records))
	return records, nil
}

func (s *Source) get(ctx context.Context, endpoint string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return retry.Permanent(err)
		}
		return err
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(into); err != nil {
		return retry.Permanent(fmt.Errorf("decode advertisers: %w", err))
	}
	return nil
}
