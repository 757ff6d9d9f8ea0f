/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package wall implements the shape wall canvas: the placed shapes, the
// pointer/keyboard gesture state machine that selects, drags, resizes and
// rotates them, and the render pipeline that composites background, shapes
// and selection handles into a frame.
//
// A Manager is not safe for concurrent use. All calls are expected from the
// goroutine that owns the UI event loop (or a replay loop).
package wall

import (
	"image"
	"image/color"
	"log/slog"
	"math"
	"time"

	applog "github.com/richmansell/molural/internal/log"
	"github.com/richmansell/molural/internal/paint"
	"github.com/richmansell/molural/internal/undo"
)

// Catalogue draws shapes by key. Draw paints the shape centered at (x, y) in a
// size×size square on s and reports false when it painted nothing (unknown
// key, or an asynchronously loaded shape that is not ready yet).
type Catalogue interface {
	Draw(s *paint.Surface, key string, x, y, size float64, c color.Color) bool
}

// Confirmer asks the user a yes/no question. answer may be called later, from
// the UI goroutine; it must be called at most once.
type Confirmer func(message string, answer func(ok bool))

// ClearPrompt is the question asked before clearing a non-empty wall.
const ClearPrompt = "Are you sure you want to clear all shapes?"

// Cursor is the pointer cursor the shell should show while hovering.
type Cursor int

const (
	CursorCrosshair Cursor = iota
	CursorGrab
	CursorResizeNWSE
	CursorResizeNESW
)

func (c Cursor) String() string {
	switch c {
	case CursorGrab:
		return "grab"
	case CursorResizeNWSE:
		return "nwse-resize"
	case CursorResizeNESW:
		return "nesw-resize"
	default:
		return "crosshair"
	}
}

// Config holds the render settings of a Manager.
type Config struct {
	Width, Height int
	Opacity       float64 // global shape alpha, 0..1
	Color         string  // colour of newly dropped shapes
	// ReferenceHeight is the interactive boundary in background image pixels.
	ReferenceHeight float64
	Quality         paint.Quality // background scaling kernel
	Undo            undo.Config
}

// DefaultConfig returns an 800×600 wall with the standard opacity and colour.
func DefaultConfig() Config {
	return Config{
		Width:           800,
		Height:          600,
		Opacity:         DefaultOpacity,
		Color:           DefaultColor,
		ReferenceHeight: ReferenceInteractiveHeight,
		Quality:         paint.QualityBest,
		Undo:            undo.Config{MaxDepth: 100, MinInterval: 400 * time.Millisecond},
	}
}

// Manager owns the shapes on the wall and the interaction state.
type Manager struct {
	cat    Catalogue
	shapes []Shape

	selected int
	g        gesture
	cursor   Cursor

	background image.Image
	bgLoaded   bool
	refHeight  float64
	quality    paint.Quality

	width, height int
	opacity       float64
	color         string
	surface       *paint.Surface

	history *undo.Manager
	now     func() time.Time

	onSelect func(index int)
	onRender func()
	log      *slog.Logger
}

// New creates a Manager drawing shapes through cat and renders the first
// (empty) frame.
func New(cat Catalogue, cfg Config) *Manager {
	if cfg.ReferenceHeight <= 0 {
		cfg.ReferenceHeight = ReferenceInteractiveHeight
	}
	if cfg.Color == "" {
		cfg.Color = DefaultColor
	}
	m := &Manager{
		cat:       cat,
		selected:  -1,
		refHeight: cfg.ReferenceHeight,
		quality:   cfg.Quality,
		opacity:   clamp01(cfg.Opacity),
		color:     normalizeColor(cfg.Color),
		history:   undo.NewManager(cfg.Undo),
		now:       time.Now,
		log:       applog.WithComponent("wall"),
	}
	m.setSize(cfg.Width, cfg.Height)
	m.render()
	return m
}

// OnSelect installs the selection listener. It receives the selected index,
// or -1 when the selection is cleared.
func (m *Manager) OnSelect(fn func(index int)) { m.onSelect = fn }

// OnRender installs a listener called after every rendered frame.
func (m *Manager) OnRender(fn func()) { m.onRender = fn }

// Shapes returns a copy of the shapes in paint order.
func (m *Manager) Shapes() []Shape { return append([]Shape(nil), m.shapes...) }

// Shape returns the shape at index i.
func (m *Manager) Shape(i int) (Shape, bool) {
	if i < 0 || i >= len(m.shapes) {
		return Shape{}, false
	}
	return m.shapes[i], true
}

// Len returns the number of shapes on the wall.
func (m *Manager) Len() int { return len(m.shapes) }

// Selected returns the selected index or -1.
func (m *Manager) Selected() int { return m.selected }

// Gesture returns the active gesture kind.
func (m *Manager) Gesture() GestureKind { return m.g.kind }

// Cursor returns the hover cursor computed by the last idle pointer move.
func (m *Manager) Cursor() Cursor { return m.cursor }

// Opacity returns the global shape alpha.
func (m *Manager) Opacity() float64 { return m.opacity }

// Color returns the colour used for the next dropped shape.
func (m *Manager) Color() string { return m.color }

// Size returns the canvas size in pixels.
func (m *Manager) Size() (w, h int) { return m.width, m.height }

// Background returns the current background image, nil when absent.
func (m *Manager) Background() image.Image { return m.background }

// BackgroundLoaded reports whether the background load has completed,
// successfully or not.
func (m *Manager) BackgroundLoaded() bool { return m.bgLoaded }

// InteractiveHeight is the y coordinate below which shapes cannot be dropped
// or picked up. It follows the background artwork as the canvas is resized.
func (m *Manager) InteractiveHeight() float64 {
	if m.background != nil {
		if bh := m.background.Bounds().Dy(); bh > 0 {
			return m.refHeight / float64(bh) * float64(m.height)
		}
	}
	return FallbackInteractiveHeight
}

// Frame returns the last rendered frame. The image is reused by the next
// render; callers that keep it must copy it.
func (m *Manager) Frame() *image.RGBA { return m.surface.Image() }

// SetBackground is the completion callback of the background load. A load
// error is logged and the wall continues without a background.
func (m *Manager) SetBackground(img image.Image, err error) {
	if err != nil {
		m.log.Warn("background image failed to load", slog.Any("err", err))
		img = nil
	}
	m.background = img
	m.bgLoaded = true
	m.render()
}

// SetOpacity sets the alpha every shape is painted with, clamped to [0,1].
func (m *Manager) SetOpacity(a float64) {
	m.opacity = clamp01(a)
	m.render()
}

// SetColor sets the colour for subsequently dropped shapes.
func (m *Manager) SetColor(c string) { m.color = normalizeColor(c) }

// Resize changes the canvas dimensions and re-renders.
func (m *Manager) Resize(w, h int) {
	m.setSize(w, h)
	m.render()
}

// Redraw re-renders the current state, e.g. when an asynchronously loaded
// shape becomes available.
func (m *Manager) Redraw() { m.render() }

func (m *Manager) setSize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	m.width, m.height = w, h
	m.surface = paint.NewSurfaceSize(w, h)
}

// setSelected changes the selection and notifies the listener on change.
func (m *Manager) setSelected(i int) {
	if i == m.selected {
		return
	}
	m.selected = i
	m.notifySelect()
}

func (m *Manager) notifySelect() {
	if m.onSelect != nil {
		m.onSelect(m.selected)
	}
}

func normalizeColor(c string) string {
	if col, err := paint.ParseHex(c); err == nil {
		return paint.Hex(col)
	}
	return c
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
