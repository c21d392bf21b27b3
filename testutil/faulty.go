// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/danielhkuo/crowd-band/store"
)

// ErrStoreUnreachable is returned by FaultyStore for injected failures
var ErrStoreUnreachable = errors.New("store unreachable")

// FaultyStore wraps a store and fails chosen writes inside Update.
// A failed write aborts the whole transaction like a real backend error.
type FaultyStore struct {
	store.Store

	mu        sync.Mutex
	prefix    string
	remaining int
}

func NewFaultyStore(s store.Store) *FaultyStore {
	return &FaultyStore{Store: s}
}

// FailWrites makes the next n Set calls on keys starting with prefix fail
func (f *FaultyStore) FailWrites(prefix string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefix = prefix
	f.remaining = n
}

func (f *FaultyStore) trip(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.remaining == 0 || !strings.HasPrefix(key, f.prefix) {
		return false
	}
	f.remaining--
	return true
}

func (f *FaultyStore) Update(ctx context.Context, fn func(tx store.Txn) error) error {
	return f.Store.Update(ctx, func(tx store.Txn) error {
		return fn(&faultyTxn{Txn: tx, store: f})
	})
}

type faultyTxn struct {
	store.Txn
	store *FaultyStore
}

func (t *faultyTxn) Set(key string, value []byte) error {
	if t.store.trip(key) {
		return ErrStoreUnreachable
	}
	return t.Txn.Set(key, value)
}
