/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package objectstore

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"dirpx.dev/causeway/oid"
)

const (
	// DriverSQLite is the modernc.org/sqlite driver name.
	DriverSQLite = "sqlite"
	// DriverPostgres is the pgx stdlib driver name.
	DriverPostgres = "pgx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS oid_sequence (
		spec TEXT PRIMARY KEY,
		last_id BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS objects (
		oid TEXT PRIMARY KEY,
		spec TEXT NOT NULL,
		payload TEXT NOT NULL,
		version BIGINT NOT NULL,
		updated_by TEXT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
}

type sqlBackend struct {
	db       *sql.DB
	numbered bool
}

// OpenSQL opens a Store over database/sql. driver is DriverSQLite or
// DriverPostgres; the schema is created when missing.
func OpenSQL(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "causeway(objectstore): open %s", driver)
	}
	if driver == DriverSQLite {
		// sqlite allows a single writer.
		db.SetMaxOpenConns(1)
	}
	b := &sqlBackend{db: db, numbered: driver == DriverPostgres}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "causeway(objectstore): create schema")
		}
	}
	return newStore(b, opts...), nil
}

// rebind turns ? placeholders into $n for postgres.
func (b *sqlBackend) rebind(q string) string {
	if !b.numbered {
		return q
	}
	var sb strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (b *sqlBackend) nextSequence(ctx context.Context, spec oid.SpecID) (int64, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, b.rebind(`INSERT INTO oid_sequence(spec, last_id) VALUES(?, 1)
		ON CONFLICT(spec) DO UPDATE SET last_id = oid_sequence.last_id + 1`), string(spec)); err != nil {
		return 0, err
	}
	var n int64
	if err := tx.QueryRowContext(ctx, b.rebind(`SELECT last_id FROM oid_sequence WHERE spec = ?`), string(spec)).Scan(&n); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return n, nil
}

func (b *sqlBackend) insert(ctx context.Context, r record) error {
	_, err := b.db.ExecContext(ctx, b.rebind(`INSERT INTO objects(oid, spec, payload, version, updated_by, updated_at)
		VALUES(?, ?, ?, ?, ?, ?)`),
		r.Key, string(r.Spec), string(r.Payload), r.Version, r.User, r.Time.UnixMilli())
	return err
}

func (b *sqlBackend) update(ctx context.Context, r record, prev int64) (bool, error) {
	res, err := b.db.ExecContext(ctx, b.rebind(`UPDATE objects
		SET payload = ?, version = ?, updated_by = ?, updated_at = ?
		WHERE oid = ? AND version = ?`),
		string(r.Payload), r.Version, r.User, r.Time.UnixMilli(), r.Key, prev)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}
	if _, err := b.load(ctx, r.Key); err != nil {
		return false, err
	}
	return false, nil
}

func (b *sqlBackend) load(ctx context.Context, key string) (record, error) {
	var (
		r       record
		spec    string
		payload string
		millis  int64
	)
	err := b.db.QueryRowContext(ctx, b.rebind(`SELECT oid, spec, payload, version, updated_by, updated_at
		FROM objects WHERE oid = ?`), key).Scan(&r.Key, &spec, &payload, &r.Version, &r.User, &millis)
	if errors.Is(err, sql.ErrNoRows) {
		return record{}, errors.Wrap(ErrNotFound, key)
	}
	if err != nil {
		return record{}, err
	}
	r.Spec = oid.SpecID(spec)
	r.Payload = []byte(payload)
	r.Time = time.UnixMilli(millis).UTC()
	return r, nil
}

func (b *sqlBackend) delete(ctx context.Context, key string) error {
	res, err := b.db.ExecContext(ctx, b.rebind(`DELETE FROM objects WHERE oid = ?`), key)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrap(ErrNotFound, key)
	}
	return nil
}

func (b *sqlBackend) close() error { return b.db.Close() }
