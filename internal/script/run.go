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
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	applog "github.com/richmansell/molural/internal/log"
	"github.com/richmansell/molural/internal/paint"
	"github.com/richmansell/molural/internal/wall"
)

// Target is the part of a wall a script drives. *wall.Manager implements it.
type Target interface {
	Size() (w, h int)
	Resize(w, h int)
	SetBackground(img image.Image, err error)
	SetColor(c string)
	UpdateSelectedColor(c string)
	SetOpacity(a float64)
	Drop(x, y float64, key string) bool
	PointerDown(x, y float64)
	PointerMove(x, y float64)
	PointerUp()
	KeyPress(key string) bool
	Select(i int) bool
	DeleteShape(i int) bool
	Clear(confirm wall.Confirmer)
	Undo() bool
	Redo() bool
}

// BrickBackground is the background source that selects the generated brick pattern.
const BrickBackground = "brick"

// Stats counts what a run did. Ignored events are those the wall rejected:
// drops below the boundary, keys with nothing selected, out-of-range indexes,
// undo with an empty history.
type Stats struct {
	Applied int
	Ignored int
}

// Runner replays scripts against a Target.
type Runner struct {
	// BaseDir resolves relative background paths; usually the script's directory.
	BaseDir string
	// LoadBackground overrides how background sources are loaded. The default
	// understands "brick" and image file paths.
	LoadBackground func(src string, w, h int) (image.Image, error)
}

// Run applies the events of s in order. It stops early only when ctx is done.
func (r *Runner) Run(ctx context.Context, t Target, s Script) (Stats, error) {
	l := applog.WithOperation(applog.WithComponent("script"), "run")
	var st Stats
	for _, ev := range s.Events {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		if r.apply(t, ev) {
			st.Applied++
		} else {
			st.Ignored++
			l.DebugContext(ctx, "event ignored", slog.String("event", ev.Op.String()), slog.Int("line", ev.LineNo))
		}
	}
	l.InfoContext(ctx, "script replayed", slog.Int("applied", st.Applied), slog.Int("ignored", st.Ignored))
	return st, nil
}

func (r *Runner) apply(t Target, ev Event) bool {
	switch ev.Op {
	case OpSize:
		t.Resize(ev.W, ev.H)
	case OpBackground:
		w, h := t.Size()
		t.SetBackground(r.load(ev.Text, w, h))
	case OpColor:
		t.SetColor(ev.Text)
	case OpRecolor:
		t.UpdateSelectedColor(ev.Text)
	case OpOpacity:
		t.SetOpacity(ev.Value)
	case OpDrop:
		return t.Drop(ev.X, ev.Y, ev.Text)
	case OpDown:
		t.PointerDown(ev.X, ev.Y)
	case OpMove:
		t.PointerMove(ev.X, ev.Y)
	case OpUp:
		t.PointerUp()
	case OpKey:
		return t.KeyPress(ev.Text)
	case OpSelect:
		return t.Select(ev.Index)
	case OpDelete:
		return t.DeleteShape(ev.Index)
	case OpClear:
		// scripts are non-interactive: the confirmation is always granted
		t.Clear(nil)
	case OpUndo:
		return t.Undo()
	case OpRedo:
		return t.Redo()
	default:
		return false
	}
	return true
}

func (r *Runner) load(src string, w, h int) (image.Image, error) {
	if r.LoadBackground != nil {
		return r.LoadBackground(src, w, h)
	}
	if strings.EqualFold(src, BrickBackground) {
		return paint.BrickPattern(w, h), nil
	}
	if !filepath.IsAbs(src) && r.BaseDir != "" {
		src = filepath.Join(r.BaseDir, src)
	}
	return paint.LoadImageFile(src)
}

// ParseFile reads and parses the script at path. All parse errors are
// returned joined; each is a script.Error.
func ParseFile(path string) (Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	s, perrs := Parse(string(b))
	if len(perrs) > 0 {
		errs := make([]error, len(perrs))
		for i, e := range perrs {
			errs[i] = e
		}
		return s, fmt.Errorf("parse %s: %w", filepath.Base(path), errors.Join(errs...))
	}
	return s, nil
}
