/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "github.com/richmansell/molural/internal/log"
	"github.com/richmansell/molural/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// schemaVersion tracks the gallery schema. Bump it together with a new step
// in runMigrations.
const schemaVersion = 2

// errCorrupt marks open failures caused by the file itself: not a database,
// a failed integrity check or an unreadable schema.
var errCorrupt = errors.New("gallery database is corrupt")

// openDB opens (creating if needed) the SQLite file at path, enables WAL and
// brings the schema up to date. Failures caused by a damaged file wrap
// errCorrupt; context, locking and permission errors do not.
func openDB(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("gallery path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create gallery dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := prepare(ctx, db); err != nil {
		_ = db.Close()
		if ctx.Err() == nil && isCorruption(err) && !errors.Is(err, errCorrupt) {
			err = fmt.Errorf("%w: %w", errCorrupt, err)
		}
		return nil, err
	}
	return db, nil
}

func prepare(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}
	var chk string
	if err := db.QueryRowContext(ctx, "PRAGMA quick_check;").Scan(&chk); err != nil {
		return fmt.Errorf("quick_check: %w", err)
	}
	if !strings.Contains(strings.ToLower(chk), "ok") {
		return fmt.Errorf("%w: quick_check: %s", errCorrupt, chk)
	}
	if err := ensureMetaAndVersion(ctx, db); err != nil {
		return err
	}
	if err := ensureSchema(ctx, db); err != nil {
		return err
	}
	if err := runMigrations(ctx, db); err != nil {
		return err
	}
	// probe the core table
	if _, err := db.ExecContext(ctx, `SELECT 1 FROM entries LIMIT 1;`); err != nil {
		return fmt.Errorf("probe entries: %w", err)
	}
	return nil
}

// isCorruption reports whether err carries an SQLite result code for a
// damaged or foreign file.
func isCorruption(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
		return true
	}
	return false
}

// openOrRecover opens path. Only when the file turns out to be corrupt is it
// backed up (with its WAL), removed and created afresh; recovered reports
// whether that happened. Every other error is returned as is.
func openOrRecover(ctx context.Context, path string) (db *sql.DB, recovered bool, err error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "gallery_open").With(slog.String("path", path))
	db, err = openDB(ctx, path)
	if err == nil {
		return db, false, nil
	}
	if !errors.Is(err, errCorrupt) {
		l.Error("open gallery failed", slog.Any("err", err))
		return nil, false, err
	}
	l.Warn("gallery database corrupt, recreating", slog.Any("err", err))
	backupFiles(path, path+"-wal")
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		_ = os.Remove(p)
	}
	db, rerr := openDB(ctx, path)
	if rerr != nil {
		l.Error("recreate gallery failed", slog.Any("err", rerr))
		return nil, false, fmt.Errorf("recreate after open failure: %w (open err: %v)", rerr, err)
	}
	return db, true, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// keep the stored schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// ensureSchema creates the current tables on a fresh database. Existing
// tables are left to runMigrations.
func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT    NOT NULL UNIQUE,
			created_at TEXT    NOT NULL,
			shapes     INTEGER NOT NULL DEFAULT 0,
			width      INTEGER NOT NULL,
			height     INTEGER NOT NULL,
			jpeg       BLOB    NOT NULL,
			thumb      BLOB
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure gallery schema: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// written by a newer build; do not downgrade
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			// v1 stored full images only; add thumbnails and the date index
			has, err := hasColumn(ctx, db, "entries", "thumb")
			if err != nil {
				return fmt.Errorf("migration %d: %w", next, err)
			}
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			var stmts []string
			if !has {
				stmts = append(stmts, `ALTER TABLE entries ADD COLUMN thumb BLOB;`)
			}
			stmts = append(stmts, `CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);`)
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
		}
		cur = next
	}
	return nil
}

func hasColumn(ctx context.Context, db *sql.DB, table, col string) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s);", table))
	if err != nil {
		return false, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()
	found := false
	for rows.Next() {
		var cid, notnull, pk int
		var name, ctype string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if strings.EqualFold(name, col) {
			found = true
		}
	}
	return found, rows.Err()
}

// backupFiles copies each existing file into backups/ next to the first one,
// all under the same timestamp.
func backupFiles(paths ...string) {
	if len(paths) == 0 {
		return
	}
	bdir := filepath.Join(filepath.Dir(paths[0]), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(p), stamp))
		_ = os.WriteFile(bak, data, 0o644)
	}
}
