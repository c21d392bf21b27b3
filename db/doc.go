// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles schema creation for the SQL key-value backends.

# Schema Creation

CreateSchema initializes the tables for a dialect:

	if err := db.CreateSchema(conn, db.DialectPostgres); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema models a key-value store, not a relational one:

  - kv_entry: one row per key (records and decimal counters)
  - kv_set_member: one row per (set, member) fact

Both dialects (postgres, sqlite) share the same table shapes; only column
types and defaults differ.
*/
package db
