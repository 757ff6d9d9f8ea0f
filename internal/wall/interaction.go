/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package wall

import (
	"log/slog"

	"github.com/richmansell/molural/internal/vector"
)

// GestureKind is the active pointer gesture. At most one is active.
type GestureKind int

const (
	Idle GestureKind = iota
	Dragging
	Resizing
	Rotating
)

func (k GestureKind) String() string {
	switch k {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	case Rotating:
		return "rotating"
	default:
		return "idle"
	}
}

// gesture is the full state of the active gesture; the zero value is Idle.
type gesture struct {
	kind  GestureKind
	index int

	offset vector.Pt // Dragging: pointer minus center at grab time

	corner       Corner    // Resizing
	startSize    float64   // Resizing
	startPointer vector.Pt // Resizing, Rotating (X only)
	startCenter  vector.Pt // Resizing

	startRotation float64 // Rotating

	// pre-gesture state, recorded into history on the first change
	before []byte
}

// Corner returns the corner being resized, NoCorner outside a resize.
func (m *Manager) Corner() Corner {
	if m.g.kind != Resizing {
		return NoCorner
	}
	return m.g.corner
}

func (m *Manager) begin(g gesture) {
	g.before = m.encodeShapes()
	m.g = g
}

// PointerDown starts a gesture or changes the selection.
func (m *Manager) PointerDown(x, y float64) {
	p := vector.Pt{X: x, Y: y}
	m.g = gesture{}

	// The rotation handle works even when it sits below the interactive area.
	if s, ok := m.Shape(m.selected); ok && OnRotateHandle(s, p) {
		m.begin(gesture{kind: Rotating, index: m.selected, startPointer: p, startRotation: s.Rotation})
		return
	}
	if y > m.InteractiveHeight() {
		return
	}
	if s, ok := m.Shape(m.selected); ok {
		if c := CornerAt(s, p, CornerThreshold); c != NoCorner {
			m.begin(gesture{
				kind:         Resizing,
				index:        m.selected,
				corner:       c,
				startSize:    s.Size,
				startPointer: p,
				startCenter:  s.Center(),
			})
			return
		}
	}
	if i := HitTest(m.shapes, p); i >= 0 {
		m.selected = i
		m.begin(gesture{kind: Dragging, index: i, offset: p.Sub(m.shapes[i].Center())})
		m.notifySelect()
		m.render()
		return
	}
	m.setSelected(-1)
	m.render()
}

// PointerMove advances the active gesture, or updates the hover cursor when
// no gesture is active.
func (m *Manager) PointerMove(x, y float64) {
	p := vector.Pt{X: x, Y: y}
	switch m.g.kind {
	case Rotating:
		if m.g.index >= len(m.shapes) {
			m.g = gesture{}
			return
		}
		m.recordGesture()
		s := &m.shapes[m.g.index]
		s.Rotation = vector.NormalizeDegrees(m.g.startRotation + (x - m.g.startPointer.X))
		m.render()
	case Resizing:
		if m.selected < 0 || m.selected >= len(m.shapes) {
			m.g = gesture{}
			return
		}
		m.recordGesture()
		d := p.Sub(m.g.startPointer)
		size, c := resizeFrom(m.g.corner, m.g.startSize, m.g.startCenter, d.X, d.Y)
		s := &m.shapes[m.selected]
		s.Size, s.X, s.Y = size, c.X, c.Y
		m.render()
	case Dragging:
		if m.g.index >= len(m.shapes) {
			m.g = gesture{}
			return
		}
		m.recordGesture()
		// not limited to the interactive area; the render pipeline masks the overflow
		c := p.Sub(m.g.offset)
		s := &m.shapes[m.g.index]
		s.X, s.Y = c.X, c.Y
		m.render()
	default:
		m.hover(p)
	}
}

func (m *Manager) hover(p vector.Pt) {
	if p.Y > m.InteractiveHeight() {
		return
	}
	m.cursor = CursorCrosshair
	s, ok := m.Shape(m.selected)
	if !ok {
		return
	}
	if OnRotateHandle(s, p) {
		m.cursor = CursorGrab
		return
	}
	switch CornerAt(s, p, CornerThreshold) {
	case TopLeft, BottomRight:
		m.cursor = CursorResizeNWSE
	case TopRight, BottomLeft:
		m.cursor = CursorResizeNESW
	}
}

// PointerUp ends any gesture.
func (m *Manager) PointerUp() { m.g = gesture{} }

// Drop places a new shape of kind key centered at (x, y) and selects it.
// Any gesture in progress is abandoned and the selection cleared first.
// Drops below the interactive area are rejected and return false.
func (m *Manager) Drop(x, y float64, key string) bool {
	m.g = gesture{}
	m.setSelected(-1)
	if y > m.InteractiveHeight() {
		m.log.Debug("drop rejected below interactive area", slog.String("key", key), slog.Float64("y", y))
		m.render()
		return false
	}
	m.record("drop")
	m.shapes = append(m.shapes, Shape{Key: key, X: x, Y: y, Size: DropSize, Color: m.color})
	m.selected = len(m.shapes) - 1
	m.notifySelect()
	m.render()
	return true
}

// KeyPress handles the editing keys for the selected shape: "+"/"=" and
// "-"/"_" rotate by KeyRotateStep, "Delete"/"Backspace" delete it. It reports
// whether the key was consumed.
func (m *Manager) KeyPress(key string) bool {
	if m.selected < 0 || m.selected >= len(m.shapes) {
		return false
	}
	switch key {
	case "+", "=":
		m.rotateSelected(KeyRotateStep)
	case "-", "_":
		m.rotateSelected(-KeyRotateStep)
	case "Delete", "Backspace":
		m.DeleteShape(m.selected)
	default:
		return false
	}
	return true
}

func (m *Manager) rotateSelected(deg float64) {
	m.record("rotate")
	s := &m.shapes[m.selected]
	s.Rotation = vector.NormalizeDegrees(s.Rotation + deg)
	m.render()
}

// Select sets the selection to i; out-of-range indices are ignored.
func (m *Manager) Select(i int) bool {
	if i < -1 || i >= len(m.shapes) {
		return false
	}
	m.g = gesture{}
	m.setSelected(i)
	m.render()
	return true
}

// DeleteShape removes the shape at index i, keeping the selection on the same
// shape when a lower index is removed. Out-of-range indices are ignored.
func (m *Manager) DeleteShape(i int) bool {
	if i < 0 || i >= len(m.shapes) {
		return false
	}
	m.record("delete")
	m.shapes = append(m.shapes[:i], m.shapes[i+1:]...)
	m.g = gesture{}
	switch {
	case m.selected == i:
		m.setSelected(-1)
	case m.selected > i:
		m.setSelected(m.selected - 1)
	}
	m.render()
	return true
}

// UpdateSelectedColor recolours the selected shape. Without a selection it
// does nothing.
func (m *Manager) UpdateSelectedColor(c string) {
	if m.selected < 0 || m.selected >= len(m.shapes) {
		return
	}
	c = normalizeColor(c)
	if m.shapes[m.selected].Color == c {
		return
	}
	m.record("color")
	m.shapes[m.selected].Color = c
	m.render()
}

// Clear removes every shape after confirm approves. A nil confirm approves
// immediately. An empty wall is left alone without asking.
func (m *Manager) Clear(confirm Confirmer) {
	if len(m.shapes) == 0 {
		return
	}
	apply := func(ok bool) {
		if !ok || len(m.shapes) == 0 {
			return
		}
		m.record("clear")
		m.shapes = nil
		m.g = gesture{}
		m.setSelected(-1)
		m.render()
	}
	if confirm == nil {
		apply(true)
		return
	}
	confirm(ClearPrompt, apply)
}
