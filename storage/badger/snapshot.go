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

package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/storage"
)

// SnapshotStore keeps a local copy of the directory. It is the sink the
// directory syncer writes to and a source the engine falls back to when
// the remote directory is down.
type SnapshotStore struct {
	backend *Backend
}

var (
	_ storage.Source = (*SnapshotStore)(nil)
	_ storage.Sink   = (*SnapshotStore)(nil)
)

// NewSnapshotStore creates a SnapshotStore on an open backend.
func NewSnapshotStore(backend *Backend) *SnapshotStore {
	return &SnapshotStore{backend: backend}
}

// Name implements storage.Source.
func (s *SnapshotStore) Name() string {
	return "snapshot"
}

// Replace drops every stored record and writes records in a single
// transaction, then stamps the sync time.
func (s *SnapshotStore) Replace(ctx context.Context, records []core.Record) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if s.backend.IsReadOnly() {
		return storage.ErrReadOnly
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		stale, err := collectKeys(tx, []byte(directoryRecordPrefix))
		if err != nil {
			return err
		}
		for _, key := range stale {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}

		for _, r := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			r = storage.EnsureID(r)
			if err := tx.Set(makeRecordKey(r.Category, r.ID), storage.MarshalRecord(r)); err != nil {
				return err
			}
		}

		stamp := make([]byte, 8)
		binary.BigEndian.PutUint64(stamp, uint64(time.Now().UTC().UnixMicro()))
		if err := tx.Set([]byte(directorySyncedKey), stamp); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FetchCategory implements storage.Source.
func (s *SnapshotStore) FetchCategory(ctx context.Context, category core.Category) ([]core.Record, error) {
	return s.scan(ctx, makeCategoryPrefix(category))
}

// FetchAll implements storage.Source.
func (s *SnapshotStore) FetchAll(ctx context.Context) ([]core.Record, error) {
	return s.scan(ctx, []byte(directoryRecordPrefix))
}

// SyncedAt returns when Replace last succeeded. The zero time means the
// snapshot has never been written.
func (s *SnapshotStore) SyncedAt(ctx context.Context) (time.Time, error) {
	if s.backend.IsClosed() {
		return time.Time{}, storage.ErrStorageClosed
	}
	var syncedAt time.Time
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(directorySyncedKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("%w: sync stamp is %d bytes", storage.ErrTruncatedData, len(val))
			}
			syncedAt = time.UnixMicro(int64(binary.BigEndian.Uint64(val))).UTC()
			return nil
		})
	}, false)
	return syncedAt, err
}

func (s *SnapshotStore) scan(ctx context.Context, prefix []byte) ([]core.Record, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	var records []core.Record
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				r, err := storage.UnmarshalRecord(val)
				if err != nil {
					return err
				}
				records = append(records, r)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func collectKeys(tx *badger.Txn, prefix []byte) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys, nil
}
