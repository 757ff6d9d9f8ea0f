/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package wall

import (
	"encoding/json"
	"log/slog"

	"github.com/richmansell/molural/internal/undo"
)

// Edits with these labels coalesce in the history when repeated quickly, so a
// run of key rotations or palette clicks undoes as one step.
var coalescing = map[string]bool{"rotate": true, "color": true}

func (m *Manager) encodeShapes() []byte {
	b, err := json.Marshal(m.shapes)
	if err != nil {
		m.log.Error("encode shapes for history", slog.Any("err", err))
		return nil
	}
	return b
}

// record pushes the current shapes as the state before an edit named label.
func (m *Manager) record(label string) {
	b := m.encodeShapes()
	if b == nil {
		return
	}
	if !coalescing[label] {
		label = ""
	}
	m.history.Push(undo.Snapshot{Label: label, Blob: b, TS: m.now()})
}

// recordGesture pushes the pre-gesture state once, on the first change.
func (m *Manager) recordGesture() {
	if m.g.before == nil {
		return
	}
	m.history.Push(undo.Snapshot{Blob: m.g.before, TS: m.now()})
	m.g.before = nil
}

func (m *Manager) CanUndo() bool { return m.history.CanUndo() }
func (m *Manager) CanRedo() bool { return m.history.CanRedo() }

// Undo restores the shapes as they were before the last edit. The selection
// is cleared and any gesture abandoned.
func (m *Manager) Undo() bool {
	return m.restore(m.history.Undo)
}

// Redo reapplies the last undone edit.
func (m *Manager) Redo() bool {
	return m.restore(m.history.Redo)
}

func (m *Manager) restore(step func(undo.Snapshot) (undo.Snapshot, bool)) bool {
	cur := m.encodeShapes()
	if cur == nil {
		return false
	}
	s, ok := step(undo.Snapshot{Blob: cur, TS: m.now()})
	if !ok {
		return false
	}
	var shapes []Shape
	if err := json.Unmarshal(s.Blob, &shapes); err != nil {
		m.log.Error("decode history snapshot", slog.Any("err", err))
		return false
	}
	m.shapes = shapes
	m.g = gesture{}
	m.setSelected(-1)
	m.render()
	return true
}

// ClearHistory forgets all undo and redo steps.
func (m *Manager) ClearHistory() { m.history.Clear() }
