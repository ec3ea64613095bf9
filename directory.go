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

package concierge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/poiesic/concierge/config"
	"github.com/poiesic/concierge/storage"
	"github.com/poiesic/concierge/storage/api"
	"github.com/poiesic/concierge/storage/badger"
	"github.com/poiesic/concierge/storage/file"
	"github.com/poiesic/concierge/storage/postgres"
	dircache "github.com/poiesic/concierge/storage/redis"
	"github.com/poiesic/concierge/syncer"
)

// ErrSnapshotRequired is returned by SyncDirectory without a snapshot path.
var ErrSnapshotRequired = errors.New("directory snapshot path is required")

// ErrNoUpstream is returned by SyncDirectory when no remote directory or
// file is configured.
var ErrNoUpstream = errors.New("no upstream directory configured")

// directory holds the opened directory backends.
type directory struct {
	// upstream are the authoritative sources, uncached: API, Postgres, file.
	upstream []storage.Source
	// chain is what the engine reads through: cached API and Postgres,
	// then the snapshot, then the file.
	chain    []storage.Source
	snapshot *badger.SnapshotStore

	backend *badger.Backend
	db      *sql.DB
	rdb     *goredis.Client
}

func openDirectory(ctx context.Context, cfg config.DirectoryConfig, writableSnapshot bool, logger *slog.Logger) (*directory, error) {
	d := &directory{}
	var remote []storage.Source

	if cfg.APIURL != "" {
		src, err := api.NewSource(cfg.APIURL,
			api.WithAPIKey(cfg.APIKey),
			api.WithTimeout(cfg.APITimeout),
			api.WithRetries(cfg.APIRetries),
			api.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		remote = append(remote, src)
	}

	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			// Unreachable databases are skipped like any failing source.
			logger.Warn("postgres directory unavailable", "err", err)
		} else {
			d.db = db
			src, err := postgres.NewSource(db, logger)
			if err != nil {
				d.Close()
				return nil, err
			}
			remote = append(remote, src)
		}
	}
	d.upstream = append(d.upstream, remote...)

	if cfg.Redis.Addr != "" && len(remote) > 0 {
		rdb, err := dircache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("directory cache unavailable", "addr", cfg.Redis.Addr, "err", err)
		} else {
			d.rdb = rdb
			for i, src := range remote {
				cached, err := dircache.NewCachedSource(src, rdb, dircache.WithTTL(cfg.Redis.TTL), dircache.WithLogger(logger))
				if err != nil {
					d.Close()
					return nil, err
				}
				remote[i] = cached
			}
		}
	}
	d.chain = append(d.chain, remote...)

	if cfg.SnapshotPath != "" {
		backendOpts := []badger.BackendOption{badger.WithBackendLogger(logger)}
		if !writableSnapshot {
			backendOpts = append(backendOpts, badger.ReadOnly())
		}
		backend, err := badger.OpenBackend(cfg.SnapshotPath, backendOpts...)
		switch {
		case errors.Is(err, badger.ErrSnapshotMissing):
			logger.Warn("directory snapshot not synced yet", "path", cfg.SnapshotPath)
		case err != nil:
			d.Close()
			return nil, fmt.Errorf("failed to open snapshot: %w", err)
		default:
			d.backend = backend
			d.snapshot = badger.NewSnapshotStore(backend)
			d.chain = append(d.chain, d.snapshot)
		}
	}

	if cfg.File != "" {
		src := file.NewSource(cfg.File)
		d.upstream = append(d.upstream, src)
		d.chain = append(d.chain, src)
	}

	return d, nil
}

// Close releases every opened backend.
func (d *directory) Close() error {
	var errs []error
	if d.rdb != nil {
		errs = append(errs, d.rdb.Close())
	}
	if d.db != nil {
		errs = append(errs, d.db.Close())
	}
	if d.backend != nil && !d.backend.IsClosed() {
		errs = append(errs, d.backend.Close())
	}
	return errors.Join(errs...)
}

// SyncDirectory copies the first configured upstream directory into the
// badger snapshot at cfg.Directory.SnapshotPath.
func SyncDirectory(ctx context.Context, cfg *config.Config, progress io.Writer) (*syncer.Stats, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if cfg.Directory.SnapshotPath == "" {
		return nil, ErrSnapshotRequired
	}

	d, err := openDirectory(ctx, cfg.Directory, true, slog.Default().With("component", "directory"))
	if err != nil {
		return nil, err
	}
	defer d.Close()

	if len(d.upstream) == 0 {
		return nil, ErrNoUpstream
	}

	syncCfg := syncer.DefaultConfig()
	syncCfg.MaxRetries = cfg.Sync.MaxRetries
	syncCfg.RetryDelay = cfg.Sync.RetryDelay

	s, err := syncer.NewSyncer(d.upstream[0], d.snapshot, syncCfg, progress)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}
