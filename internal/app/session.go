/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package app wires configuration, the shape catalogue, the wall and the
// gallery into one session shared by the desktop shell and the CLI.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/richmansell/molural/internal/config"
	"github.com/richmansell/molural/internal/export"
	applog "github.com/richmansell/molural/internal/log"
	"github.com/richmansell/molural/internal/paint"
	"github.com/richmansell/molural/internal/shapes"
	"github.com/richmansell/molural/internal/storage"
	"github.com/richmansell/molural/internal/wall"
)

// ErrEmptyWall is returned when saving a wall without shapes.
var ErrEmptyWall = errors.New("the wall is empty")

// Options tune how a session talks to its owner.
type Options struct {
	// Post runs fn on the goroutine that owns the wall. When set, SVG shapes
	// that finish loading trigger a redraw and the background loads in the
	// background. When nil everything happens synchronously.
	Post func(fn func())
	// NoGallery skips opening the gallery even when the config enables it.
	NoGallery bool
}

// Session is an open wall with its collaborators.
type Session struct {
	Config    config.AppConfig
	Catalogue *shapes.Catalogue
	Wall      *wall.Manager
	// Gallery is nil when disabled or when the database could not be opened.
	Gallery *storage.Gallery

	post func(fn func())
	now  func() time.Time
	log  *slog.Logger
}

// Open builds the catalogue (built-ins, bundled SVG shapes and the configured
// manifest), creates the wall and opens the gallery.
func Open(ctx context.Context, cfg config.AppConfig, opts Options) (*Session, error) {
	l := applog.WithComponent("app")
	cat, err := shapes.Default()
	if err != nil {
		return nil, fmt.Errorf("load shapes: %w", err)
	}
	if p := strings.TrimSpace(cfg.Shapes.Manifest); p != "" {
		if err := cat.LoadManifest(os.DirFS(filepath.Dir(p)), filepath.Base(p)); err != nil {
			return nil, fmt.Errorf("load shape manifest: %w", err)
		}
	}

	s := &Session{
		Config:    cfg,
		Catalogue: cat,
		Wall:      wall.New(cat, cfg.WallConfig()),
		post:      opts.Post,
		now:       time.Now,
		log:       l,
	}
	if s.post != nil {
		cat.OnReady(func(string) { s.post(s.Wall.Redraw) })
	}

	if cfg.Gallery.Enabled && !opts.NoGallery {
		g, err := storage.Open(ctx, cfg.Gallery.Path, cfg.Gallery.Keep)
		if err != nil {
			l.Warn("gallery unavailable", slog.String("path", cfg.Gallery.Path), slog.Any("err", err))
		} else {
			if g.Recovered() {
				l.Warn("gallery was corrupt and has been reset", slog.String("path", g.Path()))
			}
			s.Gallery = g
		}
	}
	return s, nil
}

// Close releases the gallery.
func (s *Session) Close() error {
	if s.Gallery == nil {
		return nil
	}
	return s.Gallery.Close()
}

// WaitShapes blocks until every SVG shape has loaded (or failed) and redraws.
func (s *Session) WaitShapes(ctx context.Context) error {
	if err := s.Catalogue.Wait(ctx); err != nil {
		return err
	}
	s.Wall.Redraw()
	return nil
}

// LoadBackground resolves a background source: "" means none, "brick" the
// generated pattern at w×h, anything else an image file.
func (s *Session) LoadBackground(src string, w, h int) (image.Image, error) {
	switch src = strings.TrimSpace(src); {
	case src == "":
		return nil, nil
	case strings.EqualFold(src, "brick"):
		return paint.BrickPattern(w, h), nil
	default:
		return paint.LoadImageFile(src)
	}
}

// StartBackground loads the configured background into the wall.
func (s *Session) StartBackground() {
	src := s.Config.Canvas.Background
	w, h := s.Wall.Size()
	if s.post == nil {
		s.Wall.SetBackground(s.LoadBackground(src, w, h))
		return
	}
	go func() {
		img, err := s.LoadBackground(src, w, h)
		s.post(func() { s.Wall.SetBackground(img, err) })
	}()
}

// SaveJPEG encodes the wall, writes it to path and records it in the gallery.
func (s *Session) SaveJPEG(ctx context.Context, path string) error {
	if s.Wall.Len() == 0 {
		return ErrEmptyWall
	}
	var buf bytes.Buffer
	if err := s.Wall.ExportJPEG(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write jpeg: %w", err)
	}
	s.remember(ctx, buf.Bytes())
	return nil
}

// SaveFile writes the wall to path in the format its extension names.
// JPEG saves are also recorded in the gallery.
func (s *Session) SaveFile(ctx context.Context, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return s.SaveJPEG(ctx, path)
	}
	if s.Wall.Len() == 0 {
		return ErrEmptyWall
	}
	return export.WriteFile(path, s.Wall.Snapshot(), s.Config.Export.Quality)
}

// ExportBatch writes the wall in the configured preset formats into the
// export directory and returns the written paths.
func (s *Session) ExportBatch(ctx context.Context) ([]string, error) {
	if s.Wall.Len() == 0 {
		return nil, ErrEmptyWall
	}
	img := s.Wall.Snapshot()
	paths, err := export.Batch(img, export.BatchOptions{
		Preset:  export.PresetName(s.Config.Export.Preset),
		Formats: s.Config.Export.Formats,
		OutDir:  s.Config.Export.Dir,
		Time:    s.now(),
		Quality: s.Config.Export.Quality,
	})
	if err != nil {
		return paths, err
	}
	for _, p := range paths {
		if ext := strings.ToLower(filepath.Ext(p)); ext == ".jpg" || ext == ".jpeg" {
			if b, err := os.ReadFile(p); err == nil {
				s.remember(ctx, b)
			}
		}
	}
	return paths, nil
}

// DefaultFileName is the dated name offered by save dialogs.
func (s *Session) DefaultFileName() string { return export.FileName(s.now(), "jpg") }

func (s *Session) remember(ctx context.Context, jpg []byte) {
	if s.Gallery == nil {
		return
	}
	if _, err := s.Gallery.Add(ctx, jpg, s.Wall.Len()); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn("gallery add failed", slog.Any("err", err))
	}
}
