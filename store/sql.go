// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/crowd-band/db"
)

// SQLStore implements Store on top of a database/sql connection, using the
// kv_entry and kv_set_member tables.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// OpenSQL opens a postgres or sqlite database and prepares the schema.
func OpenSQL(dialect, dsn string) (*SQLStore, error) {
	var driver string
	switch dialect {
	case db.DialectPostgres:
		driver = "postgres"
	case db.DialectSQLite:
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	s, err := NewSQL(conn, dialect)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// NewSQL wraps an open connection. The schema is created if missing.
func NewSQL(conn *sql.DB, dialect string) (*SQLStore, error) {
	if dialect == db.DialectSQLite {
		// sqlite allows one writer; a single connection serializes
		// transactions instead of surfacing SQLITE_BUSY.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := db.CreateSchema(conn, dialect); err != nil {
		return nil, err
	}

	return &SQLStore{db: conn, dialect: dialect}, nil
}

// DB exposes the underlying connection.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Update implements Store.
func (s *SQLStore) Update(ctx context.Context, fn func(tx Txn) error) error {
	return retryConflicts(ctx, isSQLConflict, func() error {
		return s.run(ctx, false, fn)
	})
}

// View implements Store.
func (s *SQLStore) View(ctx context.Context, fn func(tx Txn) error) error {
	return s.run(ctx, true, fn)
}

func (s *SQLStore) run(ctx context.Context, readOnly bool, fn func(tx Txn) error) error {
	opts := &sql.TxOptions{}
	if s.dialect == db.DialectPostgres {
		opts.Isolation = sql.LevelSerializable
		opts.ReadOnly = readOnly
	}

	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTxn{ctx: ctx, tx: tx, dialect: s.dialect}); err != nil {
		return err
	}
	return tx.Commit()
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// isSQLConflict matches postgres serialization failures and deadlocks.
func isSQLConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

type sqlTxn struct {
	ctx     context.Context
	tx      *sql.Tx
	dialect string
}

// rebind rewrites ? placeholders to $N for postgres.
func (t *sqlTxn) rebind(query string) string {
	if t.dialect != db.DialectPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (t *sqlTxn) exec(query string, args ...interface{}) (int64, error) {
	res, err := t.tx.ExecContext(t.ctx, t.rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *sqlTxn) Get(key string) ([]byte, error) {
	var value []byte
	err := t.tx.QueryRowContext(t.ctx, t.rebind(`
		SELECT value FROM kv_entry WHERE key = ?
	`), key).Scan(&value)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (t *sqlTxn) Set(key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := t.exec(`
		INSERT INTO kv_entry (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	return err
}

func (t *sqlTxn) Delete(key string) error {
	_, err := t.exec(`DELETE FROM kv_entry WHERE key = ?`, key)
	return err
}

func (t *sqlTxn) IncrBy(key string, delta int64) (int64, error) {
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

func (t *sqlTxn) SAdd(set, member string) (bool, error) {
	n, err := t.exec(`
		INSERT INTO kv_set_member (set_key, member, added_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (set_key, member) DO NOTHING
	`, set, member)
	return n == 1, err
}

func (t *sqlTxn) SRem(set, member string) (bool, error) {
	n, err := t.exec(`
		DELETE FROM kv_set_member WHERE set_key = ? AND member = ?
	`, set, member)
	return n == 1, err
}

func (t *sqlTxn) SIsMember(set, member string) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(t.ctx, t.rebind(`
		SELECT EXISTS(
			SELECT 1 FROM kv_set_member
			WHERE set_key = ? AND member = ?
		)
	`), set, member).Scan(&exists)
	return exists, err
}

func (t *sqlTxn) SMembers(set string) ([]string, error) {
	rows, err := t.tx.QueryContext(t.ctx, t.rebind(`
		SELECT member FROM kv_set_member
		WHERE set_key = ?
		ORDER BY member
	`), set)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}
