package badger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// ErrSnapshotMissing is returned when a read-only backend is opened on a
// path that holds no snapshot yet.
var ErrSnapshotMissing = errors.New("snapshot does not exist")

// Backend owns the BadgerDB instance behind a directory snapshot.
type Backend struct {
	db       *badger.DB
	logger   *slog.Logger
	readOnly bool
}

// BackendOption configures OpenBackend.
type BackendOption func(*backendConfig) error

type backendConfig struct {
	inMemory bool
	readOnly bool
	logger   *slog.Logger
}

// InMemory keeps the snapshot in memory. The path is ignored.
func InMemory() BackendOption {
	return func(c *backendConfig) error {
		c.inMemory = true
		return nil
	}
}

// ReadOnly opens an existing snapshot without taking the writer lock, so
// several engines can read while no sync is running.
func ReadOnly() BackendOption {
	return func(c *backendConfig) error {
		c.readOnly = true
		return nil
	}
}

// WithBackendLogger routes badger's own log output through logger.
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(c *backendConfig) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

// Badger's info output is chatty during compaction; it goes to debug.
func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens the snapshot database at path. A writable backend
// creates the directory when needed; a read-only one requires an existing
// snapshot and returns ErrSnapshotMissing otherwise.
func OpenBackend(path string, opts ...BackendOption) (*Backend, error) {
	cfg := &backendConfig{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.inMemory && cfg.readOnly {
		return nil, fmt.Errorf("an in-memory snapshot cannot be read-only")
	}

	var bopts badger.Options
	if cfg.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := prepareDir(path, cfg.readOnly); err != nil {
			return nil, err
		}
		bopts = badger.DefaultOptions(path).WithReadOnly(cfg.readOnly)
	}

	logger := cfg.logger.With("component", "badger", "path", path)
	bopts.Logger = &badgerLoggerAdapter{logger: logger}
	bopts.Compression = options.None

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot at %q: %w", path, err)
	}

	return &Backend{
		db:       db,
		logger:   logger,
		readOnly: cfg.readOnly,
	}, nil
}

func prepareDir(path string, readOnly bool) error {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err) && readOnly:
		return fmt.Errorf("%w: %s", ErrSnapshotMissing, path)
	case os.IsNotExist(err):
		return os.MkdirAll(path, 0755)
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%s is not a directory", path)
	}
	if readOnly {
		if _, err := os.Stat(filepath.Join(path, badger.ManifestFilename)); os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSnapshotMissing, path)
		}
	}
	return nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// IsReadOnly reports whether writes are refused.
func (b *Backend) IsReadOnly() bool {
	return b.readOnly
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}
