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

// Package postgres reads directory records from the advertisers table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/storage"
)

const selectAdvertisers = "SELECT id, name, category, description, profile, location, contact, " +
	"benefits, faq, sponsored, price, languages FROM advertisers"

// Source queries a Postgres advertisers table:
//
//	id bigint, name text, category text, description text, profile text,
//	location text, contact text, benefits text[], faq jsonb,
//	sponsored boolean, price text, languages text
type Source struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.Source = (*Source)(nil)

// Open connects to Postgres with dsn using the lib/pq driver.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewSource creates a source over an open database handle.
func NewSource(db *sql.DB, logger *slog.Logger) (*Source, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: nil database", storage.ErrSourceUnavailable)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{db: db, logger: logger.With("component", "directory-postgres")}, nil
}

// Name implements storage.Source.
func (s *Source) Name() string {
	return "postgres"
}

// FetchCategory implements storage.Source.
func (s *Source) FetchCategory(ctx context.Context, category core.Category) ([]core.Record, error) {
	return s.query(ctx, selectAdvertisers+" WHERE category = $1 ORDER BY sponsored DESC, name", string(category))
}

// FetchAll implements storage.Source.
func (s *Source) FetchAll(ctx context.Context) ([]core.Record, error) {
	return s.query(ctx, selectAdvertisers+" ORDER BY category, sponsored DESC, name")
}

func (s *Source) query(ctx context.Context, query string, args ...any) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrSourceUnavailable, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSourceUnavailable, err)
	}
	s.logger.Debug("queried advertisers", "count", len(records))
	return records, nil
}

func scanRecord(rows *sql.Rows) (core.Record, error) {
	var (
		id                             int64
		name, category                 string
		description, profile, location sql.NullString
		contact, price, languages      sql.NullString
		benefits                       []string
		faq                            []byte
		sponsored                      sql.NullBool
	)
	err := rows.Scan(&id, &name, &category, &description, &profile, &location, &contact,
		pq.Array(&benefits), &faq, &sponsored, &price, &languages)
	if err != nil {
		return core.Record{}, err
	}

	r := core.Record{
		ID:          core.ID(id),
		Name:        name,
		Category:    core.Category(category),
		Description: description.String,
		Profile:     profile.String,
		Location:    location.String,
		Contact:     contact.String,
		Benefits:    benefits,
		Sponsored:   sponsored.Bool,
		Price:       price.String,
		Languages:   languages.String,
	}
	if len(faq) > 0 {
		if err := json.Unmarshal(faq, &r.FAQ); err != nil {
			return core.Record{}, fmt.Errorf("decode faq for %q: %w", name, err)
		}
	}
	return storage.EnsureID(r), nil
}
