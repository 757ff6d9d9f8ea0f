/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/richmansell/molural/internal/config"
)

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Gallery.Path = filepath.Join(dir, "gallery.sqlite")
	cfg.Export.Dir = filepath.Join(dir, "out")
	return cfg
}

func openSession(t *testing.T, cfg config.AppConfig) *Session {
	t.Helper()
	s, err := Open(context.Background(), cfg, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenBuildsWallAndGallery(t *testing.T) {
	s := openSession(t, testConfig(t))
	if s.Gallery == nil {
		t.Fatalf("gallery should be open when enabled")
	}
	if w, h := s.Wall.Size(); w != 800 || h != 600 {
		t.Fatalf("unexpected wall size %dx%d", w, h)
	}
	if err := s.WaitShapes(context.Background()); err != nil {
		t.Fatalf("WaitShapes: %v", err)
	}
	if _, ok := s.Catalogue.Lookup("simpleFlower"); !ok {
		t.Fatalf("bundled svg shapes missing")
	}

	s.StartBackground()
	if bg := s.Wall.Background(); bg == nil || bg.Bounds().Dx() != 800 {
		t.Fatalf("brick background should be loaded synchronously: %v", bg)
	}
}

func TestOpenWithoutGallery(t *testing.T) {
	cfg := testConfig(t)
	cfg.Gallery.Enabled = false
	if s := openSession(t, cfg); s.Gallery != nil {
		t.Fatalf("disabled gallery must not be opened")
	}
	cfg.Gallery.Enabled = true
	s, err := Open(context.Background(), cfg, Options{NoGallery: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Gallery != nil {
		t.Fatalf("NoGallery must win over the config")
	}
}

func TestOpenRejectsBadManifest(t *testing.T) {
	cfg := testConfig(t)
	cfg.Shapes.Manifest = filepath.Join(t.TempDir(), "missing.json")
	if _, err := Open(context.Background(), cfg, Options{}); err == nil {
		t.Fatalf("expected manifest error")
	}
}

func TestSaveRecordsJPEGInGallery(t *testing.T) {
	cfg := testConfig(t)
	s := openSession(t, cfg)
	ctx := context.Background()
	out := filepath.Join(cfg.Export.Dir, "wall.jpg")
	if err := s.SaveJPEG(ctx, out); !errors.Is(err, ErrEmptyWall) {
		t.Fatalf("an empty wall cannot be saved, got %v", err)
	}

	s.Wall.Drop(200, 200, "circle")
	if err := s.SaveFile(ctx, out); err != nil {
		t.Fatalf("SaveFile jpg: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("jpeg not written: %v", err)
	}
	if err := s.SaveFile(ctx, filepath.Join(cfg.Export.Dir, "wall.png")); err != nil {
		t.Fatalf("SaveFile png: %v", err)
	}
	n, err := s.Gallery.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("only the jpeg belongs in the gallery, count=%d err=%v", n, err)
	}
	recent, err := s.Gallery.Recent(ctx, 1)
	if err != nil || len(recent) != 1 || recent[0].Shapes != 1 {
		t.Fatalf("unexpected gallery entry %+v err=%v", recent, err)
	}
}

func TestExportBatchUsesPreset(t *testing.T) {
	cfg := testConfig(t)
	cfg.Export.Preset = "web"
	s := openSession(t, cfg)
	s.now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }
	if s.DefaultFileName() != "shape_wall_2025-03-14.jpg" {
		t.Fatalf("unexpected default name %s", s.DefaultFileName())
	}
	if _, err := s.ExportBatch(context.Background()); err == nil {
		t.Fatalf("empty wall export should fail")
	}
	s.Wall.Drop(100, 100, "star")
	paths, err := s.ExportBatch(context.Background())
	if err != nil {
		t.Fatalf("ExportBatch: %v", err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != "shape_wall_2025-03-14.jpg" || filepath.Ext(paths[1]) != ".png" {
		t.Fatalf("unexpected paths %v", paths)
	}
	if n, _ := s.Gallery.Count(context.Background()); n != 1 {
		t.Fatalf("batch jpeg should be recorded once, count=%d", n)
	}
}

func TestPostedRedrawAndBackground(t *testing.T) {
	cfg := testConfig(t)
	cfg.Gallery.Enabled = false
	posted := make(chan func(), 64)
	s, err := Open(context.Background(), cfg, Options{Post: func(fn func()) { posted <- fn }})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.StartBackground()
	deadline := time.After(5 * time.Second)
	for s.Wall.Background() == nil {
		select {
		case fn := <-posted:
			fn()
		case <-deadline:
			t.Fatalf("background was never posted")
		}
	}
}

func TestLoadBackgroundSources(t *testing.T) {
	s := openSession(t, testConfig(t))
	if img, err := s.LoadBackground("", 10, 10); img != nil || err != nil {
		t.Fatalf("empty source means no background")
	}
	if img, err := s.LoadBackground("Brick", 30, 20); err != nil || img.Bounds().Dx() != 30 {
		t.Fatalf("brick pattern: %v %v", img, err)
	}
	if _, err := s.LoadBackground(filepath.Join(t.TempDir(), "none.png"), 1, 1); err == nil {
		t.Fatalf("missing file should fail")
	}
}
