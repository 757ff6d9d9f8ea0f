/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package wall

import (
	"math"

	"github.com/richmansell/molural/internal/vector"
)

// Layout constants, in canvas pixels unless noted.
const (
	BaseSize   = 80
	ShapeScale = 3
	DropSize   = BaseSize * ShapeScale
	MinSize    = 40

	// ReferenceInteractiveHeight is where the interactive area ends on the
	// background artwork at its natural size.
	ReferenceInteractiveHeight = 393
	FallbackInteractiveHeight  = 393

	CornerThreshold    = 15
	CornerHandleSize   = 10
	RotateHandleOffset = 30
	RotateHandleRadius = 8
	HitMargin          = 10
	SelectionInset     = 8

	DefaultOpacity = 0.75
	JPEGQuality    = 95
	KeyRotateStep  = 15 // degrees
	DefaultColor   = "#FFB3BA"
)

// Shape is a placed decoration. X, Y is the center; Size is the edge of the
// bounding square; Rotation is in degrees, kept in [0, 360).
type Shape struct {
	Key      string  `json:"key"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Color    string  `json:"color"`
	Rotation float64 `json:"rotation"`
}

func (s Shape) Center() vector.Pt { return vector.Pt{X: s.X, Y: s.Y} }

// Bounds is the unrotated bounding square.
func (s Shape) Bounds() vector.Rect { return vector.Square(s.Center(), s.Size) }

// Corner names a corner of a shape's bounding square.
type Corner int

const (
	NoCorner Corner = iota
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

// corner test order
var cornerOrder = [...]Corner{TopLeft, TopRight, BottomLeft, BottomRight}

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "tl"
	case TopRight:
		return "tr"
	case BottomLeft:
		return "bl"
	case BottomRight:
		return "br"
	default:
		return "none"
	}
}

// CornerPoint returns the position of corner c of s (unrotated).
func CornerPoint(s Shape, c Corner) vector.Pt {
	hw := s.Size / 2
	switch c {
	case TopLeft:
		return vector.Pt{X: s.X - hw, Y: s.Y - hw}
	case TopRight:
		return vector.Pt{X: s.X + hw, Y: s.Y - hw}
	case BottomLeft:
		return vector.Pt{X: s.X - hw, Y: s.Y + hw}
	case BottomRight:
		return vector.Pt{X: s.X + hw, Y: s.Y + hw}
	}
	return s.Center()
}

// Corners returns tl, tr, bl, br.
func Corners(s Shape) [4]vector.Pt {
	var out [4]vector.Pt
	for i, c := range cornerOrder {
		out[i] = CornerPoint(s, c)
	}
	return out
}

// CornerAt returns the corner of s within threshold of p. Points farther than
// 1.5 half-widths plus threshold from the center never match, so corners of
// distant shapes are not picked up.
func CornerAt(s Shape, p vector.Pt, threshold float64) Corner {
	hw := s.Size / 2
	if p.Dist(s.Center()) > hw*1.5+threshold {
		return NoCorner
	}
	for _, c := range cornerOrder {
		if p.Within(CornerPoint(s, c), threshold) {
			return c
		}
	}
	return NoCorner
}

// RotateHandle is the rotation handle position, above the unrotated top edge.
func RotateHandle(s Shape) vector.Pt {
	return vector.Pt{X: s.X, Y: s.Y - s.Size/2 - RotateHandleOffset}
}

// OnRotateHandle reports whether p is on the rotation handle of s.
func OnRotateHandle(s Shape, p vector.Pt) bool {
	return p.Within(RotateHandle(s), RotateHandleRadius)
}

// HitTest returns the topmost shape whose center is closer to p than half its
// size plus HitMargin, or -1.
func HitTest(shapes []Shape, p vector.Pt) int {
	for i := len(shapes) - 1; i >= 0; i-- {
		if p.Within(shapes[i].Center(), shapes[i].Size/2+HitMargin) {
			return i
		}
	}
	return -1
}

// resizeFrom applies a corner drag of (dx, dy) to a shape that had size and
// center at gesture start. The opposite corner stays roughly anchored.
func resizeFrom(c Corner, size float64, center vector.Pt, dx, dy float64) (float64, vector.Pt) {
	switch c {
	case TopLeft:
		// any drag distance from the top-left corner shrinks
		size -= math.Hypot(dx, dy)
		center = center.Add(vector.Pt{X: -dx / 2, Y: -dy / 2})
	case TopRight:
		size += (dx - dy) / 2
		center = center.Add(vector.Pt{X: dx / 2, Y: -dy / 2})
	case BottomLeft:
		size += (dy - dx) / 2
		center = center.Add(vector.Pt{X: -dx / 2, Y: dy / 2})
	case BottomRight:
		size += (dx + dy) / 2
		center = center.Add(vector.Pt{X: dx / 2, Y: dy / 2})
	}
	return math.Max(MinSize, size), center
}
