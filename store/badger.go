// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes inside badger. Set members are stored one key per member so
// membership changes touch only that member's key.
const (
	valuePrefix  = "k\x00"
	memberPrefix = "s\x00"
)

// BadgerConfig holds configuration for the embedded badger backend.
type BadgerConfig struct {
	// Path is the data directory. Ignored when InMemory is true.
	Path string

	InMemory   bool
	SyncWrites bool

	// Logger receives badger's internal logs. Nil disables them.
	Logger *slog.Logger

	// GCInterval controls value log GC. Zero disables it.
	GCInterval time.Duration
}

// InMemoryBadgerConfig returns configuration for tests.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{InMemory: true}
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerStore implements Store on an embedded badger database.
type BadgerStore struct {
	db     *badger.DB
	stopGC chan struct{}
	doneGC chan struct{}
}

// OpenBadger opens (creating if needed) a badger-backed store.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent badger store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create data directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
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

	s := &BadgerStore{db: db}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.stopGC = make(chan struct{})
		s.doneGC = make(chan struct{})
		go s.runGC(cfg.GCInterval)
	}
	return s, nil
}

func (s *BadgerStore) runGC(interval time.Duration) {
	defer close(s.doneGC)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopGC:
			return
		case <-ticker.C:
			err := s.db.RunValueLogGC(0.5)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				slog.Warn("badger value log GC failed", "error", err)
			}
		}
	}
}

// Update implements Store.
func (s *BadgerStore) Update(ctx context.Context, fn func(tx Txn) error) error {
	return retryConflicts(ctx, isBadgerConflict, func() error {
		txn := s.db.NewTransaction(true)
		defer txn.Discard()

		if err := fn(&badgerTxn{txn: txn}); err != nil {
			return err
		}
		return txn.Commit()
	})
}

// View implements Store.
func (s *BadgerStore) View(ctx context.Context, fn func(tx Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	txn := s.db.NewTransaction(false)
	defer txn.Discard()

	return fn(&badgerTxn{txn: txn})
}

// Close stops value log GC and closes the database.
func (s *BadgerStore) Close() error {
	if s.stopGC != nil {
		close(s.stopGC)
		<-s.doneGC
	}
	return s.db.Close()
}

func isBadgerConflict(err error) bool {
	return errors.Is(err, badger.ErrConflict)
}

type badgerTxn struct {
	txn *badger.Txn
}

func valueKey(key string) []byte {
	return []byte(valuePrefix + key)
}

func setPrefix(set string) []byte {
	return []byte(memberPrefix + set + "\x00")
}

func memberKey(set, member string) []byte {
	return append(setPrefix(set), member...)
}

func (t *badgerTxn) Get(key string) ([]byte, error) {
	item, err := t.txn.Get(valueKey(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (t *badgerTxn) Set(key string, value []byte) error {
	return t.txn.Set(valueKey(key), value)
}

func (t *badgerTxn) Delete(key string) error {
	return t.txn.Delete(valueKey(key))
}

func (t *badgerTxn) IncrBy(key string, delta int64) (int64, error) {
	n, err := GetInt(t, key)
	if err != nil {
		return 0, err
	}
	n += delta
	if err := t.Set(key, formatCounter(n)); err != nil {
		return 0, err
	}
	return n, nil
}

func (t *badgerTxn) SIsMember(set, member string) (bool, error) {
	_, err := t.txn.Get(memberKey(set, member))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (t *badgerTxn) SAdd(set, member string) (bool, error) {
	present, err := t.SIsMember(set, member)
	if err != nil || present {
		return false, err
	}
	return true, t.txn.Set(memberKey(set, member), nil)
}

func (t *badgerTxn) SRem(set, member string) (bool, error) {
	present, err := t.SIsMember(set, member)
	if err != nil || !present {
		return false, err
	}
	return true, t.txn.Delete(memberKey(set, member))
}

func (t *badgerTxn) SMembers(set string) ([]string, error) {
	prefix := setPrefix(set)

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix

	it := t.txn.NewIterator(opts)
	defer it.Close()

	members := []string{}
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		members = append(members, string(it.Item().KeyCopy(nil)[len(prefix):]))
	}
	return members, nil
}
