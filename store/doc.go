// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence port for the contest engine.

The engine needs only key-value semantics: get/set/delete, atomic
increment, and set membership. Every check-then-act sequence runs inside
one Update transaction, so uniqueness checks, vote toggles and stat bumps
are atomic against concurrent callers.

# Backends

Three implementations share the Store interface:

  - BadgerStore: embedded badger database (default). Optimistic
    transactions; ErrConflict causes the transaction to be re-run.
  - SQLStore with postgres: serializable transactions; serialization
    failures (40001) cause the transaction to be re-run.
  - SQLStore with sqlite: a single connection serializes writers.

Open one with:

	s, err := store.OpenBadger(store.BadgerConfig{Path: "./data"})
	s, err := store.OpenSQL("postgres", os.Getenv("DATABASE_URL"))

# Transactions

	err := s.Update(ctx, func(tx store.Txn) error {
		added, err := tx.SAdd("voters:"+id, userID)
		if err != nil || !added {
			return err
		}
		_, err = tx.IncrBy("votes:"+id, 1)
		return err
	})

The function passed to Update may run more than once. It must not have
effects outside the transaction.
*/
package store
