/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/richmansell/molural/internal/shapes"
	"github.com/richmansell/molural/internal/wall"
)

func newWall(t *testing.T) *wall.Manager {
	t.Helper()
	return wall.New(shapes.Builtin(), wall.DefaultConfig())
}

func mustParse(t *testing.T, src string) Script {
	t.Helper()
	s, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse: %+v", errs)
	}
	return s
}

func TestRunDragRotateUndo(t *testing.T) {
	m := newWall(t)
	s := mustParse(t, `size 800 600
color #BAFFC9
drop circle 300 200
down 300 200
move 340 220
up
key +
drop square 100 500
undo`)

	var r Runner
	st, err := r.Run(context.Background(), m, s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st.Applied != 8 || st.Ignored != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if m.Len() != 1 {
		t.Fatalf("drop below the boundary must be rejected, have %d shapes", m.Len())
	}
	sh, _ := m.Shape(0)
	if sh.X != 340 || sh.Y != 220 {
		t.Fatalf("drag lost by undo of the rotation: %+v", sh)
	}
	if sh.Rotation != 0 {
		t.Fatalf("undo should revert the key rotation, got %v", sh.Rotation)
	}
	if sh.Color != "#BAFFC9" {
		t.Fatalf("drop should use the scripted colour, got %s", sh.Color)
	}
}

func TestRunClearIsUnconditional(t *testing.T) {
	m := newWall(t)
	s := mustParse(t, "drop circle 100 100\ndrop star 200 100\nclear")
	if _, err := (&Runner{}).Run(context.Background(), m, s); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("clear should empty the wall, have %d", m.Len())
	}
	if !m.Undo() || m.Len() != 2 {
		t.Fatalf("clear should be undoable, have %d", m.Len())
	}
}

func TestRunIgnoresKeysWithoutSelection(t *testing.T) {
	m := newWall(t)
	s := mustParse(t, "key +\nselect 3\ndelete 0\nundo")
	st, err := (&Runner{}).Run(context.Background(), m, s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st.Applied != 0 || st.Ignored != 4 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestRunBackgroundSources(t *testing.T) {
	m := newWall(t)
	r := Runner{LoadBackground: func(src string, w, h int) (image.Image, error) {
		if src != "tall" {
			t.Fatalf("unexpected source %q", src)
		}
		return image.NewRGBA(image.Rect(0, 0, 100, 786)), nil
	}}
	if _, err := r.Run(context.Background(), m, mustParse(t, "background tall")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := m.InteractiveHeight(); math.Abs(got-300) > 1e-9 {
		t.Fatalf("interactive height should follow the background, got %v", got)
	}

	// brick and relative file paths through the default loader
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 20, 40))
	img.Set(1, 1, color.NRGBA{B: 255, A: 255})
	f, err := os.Create(filepath.Join(dir, "bg.png"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	_ = f.Close()

	m = newWall(t)
	r = Runner{BaseDir: dir}
	if _, err := r.Run(context.Background(), m, mustParse(t, "background bg.png")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if bg := m.Background(); bg == nil || bg.Bounds().Dy() != 40 {
		t.Fatalf("file background not loaded: %v", bg)
	}
	if _, err := r.Run(context.Background(), m, mustParse(t, "background brick")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if bg := m.Background(); bg == nil || bg.Bounds().Dx() != 800 {
		t.Fatalf("brick background should match the wall size: %v", bg)
	}
	if _, err := r.Run(context.Background(), m, mustParse(t, "background missing.png")); err != nil {
		t.Fatalf("a failed background load is not a run error: %v", err)
	}
	if m.Background() != nil || !m.BackgroundLoaded() {
		t.Fatalf("failed load should leave the wall without a background")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st, err := (&Runner{}).Run(ctx, newWall(t), mustParse(t, "drop circle 1 1"))
	if !errors.Is(err, context.Canceled) || st.Applied != 0 {
		t.Fatalf("expected cancellation before any event, got %+v %v", st, err)
	}
}

func TestParseFileJoinsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wall")
	if err := os.WriteFile(path, []byte("drop\nfly"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := ParseFile(path)
	var pe Error
	if !errors.As(err, &pe) || pe.Line != 1 {
		t.Fatalf("expected a script.Error for line 1, got %v", err)
	}
	if _, err := ParseFile(filepath.Join(t.TempDir(), "none")); err == nil {
		t.Fatalf("expected read error")
	}
}
