/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"time"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/richmansell/molural/internal/export"
	applog "github.com/richmansell/molural/internal/log"
)

// ErrNotFound is returned when a gallery entry does not exist.
var ErrNotFound = errors.New("gallery entry not found")

const (
	// DefaultKeep is how many exports the gallery retains.
	DefaultKeep = 5
	// ThumbWidth is the width of stored thumbnails in pixels.
	ThumbWidth   = 200
	thumbQuality = 85
)

// Entry is one exported wall.
type Entry struct {
	ID        string
	CreatedAt time.Time
	Shapes    int
	Width     int
	Height    int
	JPEG      []byte
	// Thumb is a ThumbWidth-wide JPEG, nil for entries stored before
	// thumbnails existed.
	Thumb []byte
}

// Gallery is the store of recent exports. Methods are safe for concurrent
// use; the database is opened with a single connection.
type Gallery struct {
	db        *sql.DB
	path      string
	keep      int
	recovered bool
	now       func() time.Time
}

// Open opens or creates the gallery database at path, keeping at most keep
// entries (DefaultKeep when keep <= 0).
func Open(ctx context.Context, path string, keep int) (*Gallery, error) {
	if keep <= 0 {
		keep = DefaultKeep
	}
	db, recovered, err := openOrRecover(ctx, path)
	if err != nil {
		return nil, err
	}
	applog.WithComponent("storage").Debug("gallery ready", slog.String("path", path), slog.Int("keep", keep))
	return &Gallery{db: db, path: path, keep: keep, recovered: recovered, now: time.Now}, nil
}

func (g *Gallery) Path() string { return g.path }
func (g *Gallery) Keep() int    { return g.keep }

// Recovered reports whether Open replaced an unreadable database file.
func (g *Gallery) Recovered() bool { return g.recovered }

func (g *Gallery) Close() error { return g.db.Close() }

// Add stores a JPEG export of a wall holding shapes shapes and prunes the
// gallery to the newest Keep entries.
func (g *Gallery) Add(ctx context.Context, jpg []byte, shapes int) (Entry, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "gallery_add")
	img, err := jpeg.Decode(bytes.NewReader(jpg))
	if err != nil {
		return Entry{}, fmt.Errorf("gallery add: decode jpeg: %w", err)
	}
	thumb, err := makeThumb(img)
	if err != nil {
		// the export itself is still worth keeping
		l.Warn("thumbnail failed", slog.Any("err", err))
		thumb = nil
	}
	e := Entry{
		ID:        uuid.NewString(),
		CreatedAt: g.now().UTC(),
		Shapes:    shapes,
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		JPEG:      jpg,
		Thumb:     thumb,
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO entries(id, created_at, shapes, width, height, jpeg, thumb) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.Format(time.RFC3339Nano), e.Shapes, e.Width, e.Height, e.JPEG, e.Thumb); err != nil {
		_ = tx.Rollback()
		return Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM entries WHERE seq NOT IN (SELECT seq FROM entries ORDER BY seq DESC LIMIT ?)`, g.keep)
	if err != nil {
		_ = tx.Rollback()
		return Entry{}, fmt.Errorf("prune entries: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("commit: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		l.Debug("pruned old exports", slog.Int64("count", n))
	}
	l.Info("export stored", slog.String("id", e.ID), slog.Int("shapes", shapes), slog.Int("bytes", len(jpg)))
	return e, nil
}

// Recent returns up to n entries, newest first. n <= 0 returns all retained.
func (g *Gallery) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = g.keep
	}
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, created_at, shapes, width, height, jpeg, thumb FROM entries ORDER BY seq DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns the entry with id or ErrNotFound.
func (g *Gallery) Get(ctx context.Context, id string) (Entry, error) {
	row := g.db.QueryRowContext(ctx,
		`SELECT id, created_at, shapes, width, height, jpeg, thumb FROM entries WHERE id=?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// Delete removes the entry with id or returns ErrNotFound.
func (g *Gallery) Delete(ctx context.Context, id string) error {
	res, err := g.db.ExecContext(ctx, `DELETE FROM entries WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (g *Gallery) Count(ctx context.Context) (int, error) {
	var n int
	if err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var ts string
	if err := s.Scan(&e.ID, &ts, &e.Shapes, &e.Width, &e.Height, &e.JPEG, &e.Thumb); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scan entry: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s: bad timestamp %q: %w", e.ID, ts, err)
	}
	e.CreatedAt = t
	return e, nil
}

// makeThumb scales img to ThumbWidth wide, keeping the aspect ratio.
func makeThumb(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.New("empty image")
	}
	w := ThumbWidth
	if b.Dx() < w {
		w = b.Dx()
	}
	h := b.Dy() * w / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return export.EncodeJPEG(dst, thumbQuality)
}
