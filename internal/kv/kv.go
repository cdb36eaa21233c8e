// Package kv opens the embedded badger databases that back persisted
// preferences and markers, and carries the small read helpers they share.
package kv

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v4"
)

const (
	smallTableSize    = 8 << 20
	smallValueLogSize = 16 << 20
)

// ErrNoPath is returned when a persistent database is opened without a path.
var ErrNoPath = errors.New("path is required for persistent database")

// Config selects where and how a database is opened.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Logger receives badger's own messages. Nil silences them.
	Logger *log.Logger
}

// badgerLogger adapts a charmbracelet logger to badger.Logger.
type badgerLogger struct {
	logger *log.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warnf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debugf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debugf(format, args...)
}

// Open opens the database described by cfg, creating its directory.
func Open(cfg Config) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, ErrNoPath
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		// Marker and preference data stays in the kilobytes.
		opts = badger.DefaultOptions(cfg.Path).
			WithMemTableSize(smallTableSize).
			WithValueLogFileSize(smallValueLogSize).
			WithBlockCacheSize(smallTableSize).
			WithNumMemtables(2)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return db, nil
}

// OpenPath opens a durable database at path.
func OpenPath(path string, logger *log.Logger) (*badger.DB, error) {
	return Open(Config{Path: path, SyncWrites: true, Logger: logger})
}

// OpenInMemory opens a throwaway database.
func OpenInMemory() (*badger.DB, error) {
	return Open(Config{InMemory: true})
}

// Get reads key inside txn. A missing key reports found=false and no error.
func Get(txn *badger.Txn, key []byte) ([]byte, bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

// Scan calls fn for every key under prefix, in key order, with copies of the
// key and value.
func Scan(txn *badger.Txn, prefix []byte, fn func(key, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		value, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("read %s: %w", item.Key(), err)
		}
		if err := fn(item.KeyCopy(nil), value); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns the keys under prefix.
func Keys(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}
