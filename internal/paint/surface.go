/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package paint provides the raster drawing surface the wall renders into.
// A Surface behaves like a 2D canvas context: a transform, a global alpha and
// a clip, all saved and restored together. Fills, strokes and clip masks are
// rasterized by github.com/fogleman/gg; paths are transformed on our side so
// the current matrix is always known to other rasterizers (SVG shapes).
package paint

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/richmansell/molural/internal/vector"
)

type surfaceState struct {
	alpha float64
	xf    vector.Affine2D
	clip  image.Rectangle
}

// Surface is a drawing target over an *image.RGBA. It is not safe for
// concurrent use.
type Surface struct {
	img   *image.RGBA
	dc    *gg.Context
	alpha float64
	xf    vector.Affine2D
	clip  image.Rectangle
	stack []surfaceState
}

// NewSurface wraps img. The surface starts with identity transform, alpha 1
// and no clip.
func NewSurface(img *image.RGBA) *Surface {
	dc := gg.NewContextForRGBA(img)
	dc.SetLineCapButt()
	return &Surface{
		img:   img,
		dc:    dc,
		alpha: 1,
		xf:    vector.Identity,
		clip:  img.Bounds(),
	}
}

// NewSurfaceSize allocates a transparent w×h surface.
func NewSurfaceSize(w, h int) *Surface {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return NewSurface(image.NewRGBA(image.Rect(0, 0, w, h)))
}

func (s *Surface) Image() *image.RGBA { return s.img }
func (s *Surface) Width() int         { return s.img.Bounds().Dx() }
func (s *Surface) Height() int        { return s.img.Bounds().Dy() }

// Clear resets every pixel to transparent, ignoring transform and clip.
func (s *Surface) Clear() {
	s.dc.Push()
	s.dc.ResetClip()
	s.dc.SetColor(color.Transparent)
	s.dc.Clear()
	s.dc.Pop()
}

// Save pushes transform, alpha and clip.
func (s *Surface) Save() {
	s.stack = append(s.stack, surfaceState{alpha: s.alpha, xf: s.xf, clip: s.clip})
	s.dc.Push()
}

// Restore pops the state pushed by the matching Save. Unbalanced calls are ignored.
func (s *Surface) Restore() {
	n := len(s.stack)
	if n == 0 {
		return
	}
	st := s.stack[n-1]
	s.stack = s.stack[:n-1]
	s.alpha, s.xf, s.clip = st.alpha, st.xf, st.clip
	s.dc.Pop()
}

// Depth returns the number of outstanding Save calls.
func (s *Surface) Depth() int { return len(s.stack) }

func (s *Surface) Alpha() float64 { return s.alpha }

// SetAlpha sets the global alpha applied to every subsequent fill, stroke and
// image draw. Values are clamped to [0,1].
func (s *Surface) SetAlpha(a float64) { s.alpha = clamp01(a) }

func (s *Surface) Transform() vector.Affine2D { return s.xf }

func (s *Surface) Translate(x, y float64) { s.xf = s.xf.Mul(vector.Translate(x, y)) }

// Rotate rotates the user space by deg degrees (clockwise on screen).
func (s *Surface) Rotate(deg float64) { s.xf = s.xf.Mul(vector.Rotate(vector.Radians(deg))) }

// RotateAbout rotates by deg around c in user space.
func (s *Surface) RotateAbout(c vector.Pt, deg float64) { s.xf = s.xf.Mul(vector.RotateAbout(c, deg)) }

// ClipRect intersects the clip with r given in user space.
func (s *Surface) ClipRect(r vector.Rect) {
	p := vector.RectPath(r)
	dp := p.Transform(s.xf)
	s.trace(dp)
	s.dc.Clip()
	b := dp.Bounds()
	dev := image.Rect(int(math.Floor(b.X)), int(math.Floor(b.Y)), int(math.Ceil(b.X+b.W)), int(math.Ceil(b.Y+b.H)))
	s.clip = s.clip.Intersect(dev)
}

// ClipBounds returns the device-space bounding box of the current clip.
func (s *Surface) ClipBounds() image.Rectangle { return s.clip }

// FillPath fills p (user space) with c, modulated by the global alpha.
func (s *Surface) FillPath(p vector.Path, c color.Color) {
	if p.Empty() {
		return
	}
	s.trace(p.Transform(s.xf))
	s.dc.SetColor(s.withAlpha(c))
	s.dc.Fill()
}

// StrokePath outlines p (user space). Disabled strokes draw nothing.
func (s *Surface) StrokePath(p vector.Path, st vector.Stroke) {
	if p.Empty() || !st.Enabled || st.Width <= 0 {
		return
	}
	s.trace(p.Transform(s.xf))
	s.dc.SetColor(s.withAlpha(st.Color))
	s.dc.SetLineWidth(st.Width)
	s.dc.SetDash(st.Dash...)
	s.dc.Stroke()
	s.dc.SetDash()
}

func (s *Surface) FillRect(r vector.Rect, c color.Color) { s.FillPath(vector.RectPath(r), c) }

func (s *Surface) StrokeRect(r vector.Rect, st vector.Stroke) {
	s.StrokePath(vector.RectPath(r), st)
}

func (s *Surface) FillCircle(c vector.Pt, r float64, col color.Color) {
	s.FillPath(vector.Circle(c, r), col)
}

func (s *Surface) StrokeCircle(c vector.Pt, r float64, st vector.Stroke) {
	s.StrokePath(vector.Circle(c, r), st)
}

// Line strokes the open segment a→b.
func (s *Surface) Line(a, b vector.Pt, st vector.Stroke) {
	var p vector.Path
	p.MoveTo(a.X, a.Y)
	p.LineTo(b.X, b.Y)
	s.StrokePath(p, st)
}

// Text draws str with its baseline starting at the user-space point (x, y).
func (s *Surface) Text(str string, x, y float64, face font.Face, c color.Color) {
	pt := s.xf.Apply(vector.Pt{X: x, Y: y})
	s.dc.SetFontFace(face)
	s.dc.SetColor(s.withAlpha(c))
	s.dc.DrawString(str, pt.X, pt.Y)
}

func (s *Surface) trace(p vector.Path) {
	s.dc.ClearPath()
	for _, c := range p.Cmds {
		switch c.Op {
		case vector.MoveTo:
			s.dc.MoveTo(c.Data[0], c.Data[1])
		case vector.LineTo:
			s.dc.LineTo(c.Data[0], c.Data[1])
		case vector.QuadTo:
			s.dc.QuadraticTo(c.Data[0], c.Data[1], c.Data[2], c.Data[3])
		case vector.CubicTo:
			s.dc.CubicTo(c.Data[0], c.Data[1], c.Data[2], c.Data[3], c.Data[4], c.Data[5])
		case vector.Close:
			s.dc.ClosePath()
		}
	}
}

func (s *Surface) withAlpha(c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if s.alpha < 1 {
		n.A = uint8(math.Round(float64(n.A) * s.alpha))
	}
	return n
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
