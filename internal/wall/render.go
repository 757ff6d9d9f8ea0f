/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package wall

import (
	"image"
	"math"

	"github.com/richmansell/molural/internal/paint"
	"github.com/richmansell/molural/internal/vector"
)

// Selection UI styles.
var (
	boundaryStroke  = vector.Solid(vector.RGBA(0, 0, 0, 0.3), 2)
	selectionStroke = vector.Dashed(vector.RGBA(0, 0, 0, 0.5), 3, 5, 5)
	handleStroke    = vector.Solid(vector.White, 2)
	guideStroke     = vector.Dashed(vector.RGBA(33, 150, 243, 0.5), 1, 3, 3)

	cornerFill = paint.HexColor("#4CAF50")
	rotateFill = paint.HexColor("#2196F3")
)

// render redraws the whole frame from the current state.
func (m *Manager) render() {
	if m.width == 0 || m.height == 0 {
		if m.onRender != nil {
			m.onRender()
		}
		return
	}
	s := m.surface
	s.Clear()
	full := image.Rect(0, 0, m.width, m.height)
	if m.background != nil {
		s.DrawImage(m.background, m.background.Bounds(), full, m.quality)
	}

	s.Save()
	s.ClipRect(vector.R(0, 0, float64(m.width), float64(m.height)))
	s.SetAlpha(m.opacity)
	for _, sh := range m.shapes {
		s.Save()
		s.RotateAbout(sh.Center(), sh.Rotation)
		m.cat.Draw(s, sh.Key, sh.X, sh.Y, sh.Size, paint.HexColor(sh.Color))
		s.Restore()
	}
	s.Restore()

	m.drawSelection(s)
	m.drawOverlay(s)

	if m.onRender != nil {
		m.onRender()
	}
}

func (m *Manager) drawSelection(s *paint.Surface) {
	ih := m.InteractiveHeight()
	s.Line(vector.Pt{X: 0, Y: ih}, vector.Pt{X: float64(m.width), Y: ih}, boundaryStroke)

	sh, ok := m.Shape(m.selected)
	if !ok {
		return
	}
	hw := sh.Size / 2
	s.StrokeRect(vector.R(sh.X-hw-SelectionInset, sh.Y-hw-SelectionInset, sh.Size+2*SelectionInset, sh.Size+2*SelectionInset), selectionStroke)

	for _, c := range Corners(sh) {
		r := vector.Square(c, CornerHandleSize)
		s.FillRect(r, cornerFill)
		s.StrokeRect(r, handleStroke)
	}

	h := RotateHandle(sh)
	s.FillCircle(h, RotateHandleRadius, rotateFill)
	s.StrokeCircle(h, RotateHandleRadius, handleStroke)
	s.Line(vector.Pt{X: sh.X, Y: sh.Y - hw}, h, guideStroke)
}

// drawOverlay repaints the background below the interactive area over any
// shapes that extend past it.
func (m *Manager) drawOverlay(s *paint.Surface) {
	if m.background == nil {
		return
	}
	b := m.background.Bounds()
	top := int(math.Round(m.InteractiveHeight()))
	srcTop := b.Min.Y + int(math.Round(m.refHeight))
	if m.height-top <= 0 || b.Max.Y-srcTop <= 0 {
		return
	}
	s.DrawImage(m.background, image.Rect(b.Min.X, srcTop, b.Max.X, b.Max.Y), image.Rect(0, top, m.width, m.height), m.quality)
}
