// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

var (
	ErrNotFound         = errors.New("key not found")
	ErrTooManyConflicts = errors.New("transaction conflicted too many times")
)

// Backend type constants
const (
	TypeBadger   = "badger"
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// maxAttempts bounds how often Update re-runs a transaction that lost a
// conflict against a concurrent writer.
const maxAttempts = 64

// Txn is a view of the key space inside one transaction.
// Counters are stored as decimal strings in the same key space as values.
type Txn interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	IncrBy(key string, delta int64) (int64, error)

	// SAdd reports whether member was newly added.
	SAdd(set, member string) (bool, error)
	// SRem reports whether member was present.
	SRem(set, member string) (bool, error)
	SIsMember(set, member string) (bool, error)
	// SMembers returns members in ascending byte order.
	SMembers(set string) ([]string, error)
}

// Store is the persistence port used by the contest engine.
//
// Update runs fn in a serializable read-write transaction. When the backend
// reports a conflict with a concurrent transaction, fn is run again from
// scratch, so fn must not have effects outside the Txn.
type Store interface {
	Update(ctx context.Context, fn func(tx Txn) error) error
	View(ctx context.Context, fn func(tx Txn) error) error
	Close() error
}

// SetNX writes value under key only if key is absent.
// It reports whether the write happened.
func SetNX(ctx context.Context, s Store, key string, value []byte) (bool, error) {
	var created bool
	err := s.Update(ctx, func(tx Txn) error {
		created = false
		_, err := tx.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		created = true
		return tx.Set(key, value)
	})
	return created, err
}

// Incr atomically adds delta to the counter at key and returns the new value.
func Incr(ctx context.Context, s Store, key string, delta int64) (int64, error) {
	var n int64
	err := s.Update(ctx, func(tx Txn) error {
		var err error
		n, err = tx.IncrBy(key, delta)
		return err
	})
	return n, err
}

// GetInt reads a counter, treating a missing key as zero.
func GetInt(tx Txn, key string) (int64, error) {
	raw, err := tx.Get(key)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return parseCounter(key, raw)
}

func parseCounter(key string, raw []byte) (int64, error) {
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter %s is not an integer: %w", key, err)
	}
	return n, nil
}

func formatCounter(n int64) []byte {
	return []byte(strconv.FormatInt(n, 10))
}

// retryConflicts runs attempt until it succeeds, fails with a
// non-conflict error, or maxAttempts is reached.
func retryConflicts(ctx context.Context, isConflict func(error) bool, attempt func() error) error {
	for i := 0; i < maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := attempt()
		if err == nil || !isConflict(err) {
			return err
		}

		// Small jittered pause so contending writers spread out
		pause := time.Duration(rand.IntN(1<<min(i, 6))+1) * 100 * time.Microsecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
	}
	return ErrTooManyConflicts
}
