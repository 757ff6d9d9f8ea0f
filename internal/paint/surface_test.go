/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package paint

import (
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/font/basicfont"

	"github.com/richmansell/molural/internal/vector"
)

func alphaAt(img *image.RGBA, x, y int) uint8 { return img.RGBAAt(x, y).A }

func TestFillRectOpaqueAndAlpha(t *testing.T) {
	s := NewSurfaceSize(40, 40)
	s.FillRect(vector.R(0, 0, 20, 40), color.NRGBA{R: 255, A: 255})
	if c := s.Image().RGBAAt(10, 10); c.R != 255 || c.A != 255 {
		t.Fatalf("expected opaque red, got %+v", c)
	}
	if a := alphaAt(s.Image(), 30, 10); a != 0 {
		t.Fatalf("expected untouched pixel to stay transparent, got alpha %d", a)
	}

	s.SetAlpha(0.5)
	s.FillRect(vector.R(20, 0, 20, 40), color.NRGBA{B: 255, A: 255})
	a := alphaAt(s.Image(), 30, 10)
	if a < 120 || a > 135 {
		t.Fatalf("expected ~50%% alpha, got %d", a)
	}
}

func TestSaveRestoreResetsAlphaTransformAndClip(t *testing.T) {
	s := NewSurfaceSize(50, 50)
	s.Save()
	s.SetAlpha(0.2)
	s.Translate(10, 10)
	s.ClipRect(vector.R(0, 0, 5, 5))
	if got := s.ClipBounds(); got != image.Rect(10, 10, 15, 15) {
		t.Fatalf("unexpected clip bounds: %v", got)
	}
	s.Restore()
	if s.Alpha() != 1 || s.Transform() != vector.Identity || s.ClipBounds() != image.Rect(0, 0, 50, 50) {
		t.Fatalf("state not restored: alpha=%v xf=%+v clip=%v", s.Alpha(), s.Transform(), s.ClipBounds())
	}
	if s.Depth() != 0 {
		t.Fatalf("expected empty stack, got %d", s.Depth())
	}
	// unbalanced restore is ignored
	s.Restore()
}

func TestClipMasksFill(t *testing.T) {
	s := NewSurfaceSize(40, 40)
	s.Save()
	s.ClipRect(vector.R(0, 0, 40, 20))
	s.FillRect(vector.R(0, 0, 40, 40), color.NRGBA{G: 255, A: 255})
	s.Restore()
	if alphaAt(s.Image(), 5, 5) != 255 {
		t.Fatalf("expected pixel inside clip to be filled")
	}
	if alphaAt(s.Image(), 5, 35) != 0 {
		t.Fatalf("expected pixel outside clip to stay transparent")
	}
}

func TestRotateAboutMovesGeometry(t *testing.T) {
	s := NewSurfaceSize(100, 100)
	c := vector.Pt{X: 50, Y: 50}
	s.RotateAbout(c, 90)
	// a bar to the right of the center ends up below it after a 90° turn
	s.FillRect(vector.R(60, 45, 30, 10), color.NRGBA{R: 255, A: 255})
	if alphaAt(s.Image(), 50, 75) != 255 {
		t.Fatalf("expected rotated bar below the center")
	}
	if alphaAt(s.Image(), 75, 50) != 0 {
		t.Fatalf("expected original bar position to be empty")
	}
}

func TestDashedStrokeLeavesGaps(t *testing.T) {
	s := NewSurfaceSize(60, 10)
	s.Line(vector.Pt{X: 0, Y: 5}, vector.Pt{X: 60, Y: 5}, vector.Dashed(vector.Black, 2, 10, 10))
	if alphaAt(s.Image(), 5, 5) == 0 {
		t.Fatalf("expected first dash to be drawn")
	}
	if alphaAt(s.Image(), 15, 5) != 0 {
		t.Fatalf("expected a gap after the first dash")
	}
	// disabled strokes draw nothing
	s2 := NewSurfaceSize(10, 10)
	s2.StrokeRect(vector.R(1, 1, 8, 8), vector.Stroke{Width: 2})
	if alphaAt(s2.Image(), 1, 5) != 0 {
		t.Fatalf("disabled stroke should not paint")
	}
}

func TestClearAndText(t *testing.T) {
	s := NewSurfaceSize(80, 20)
	s.FillRect(vector.R(0, 0, 80, 20), vector.White)
	s.Clear()
	if alphaAt(s.Image(), 40, 10) != 0 {
		t.Fatalf("clear should reset to transparent")
	}
	s.Text("Hi", 2, 14, basicfont.Face7x13, vector.Black)
	painted := false
	for x := 0; x < 20 && !painted; x++ {
		for y := 0; y < 20; y++ {
			if alphaAt(s.Image(), x, y) > 0 {
				painted = true
				break
			}
		}
	}
	if !painted {
		t.Fatalf("expected text pixels")
	}
}

func TestDrawImageStretchesSlice(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 20))
	for y := 10; y < 20; y++ {
		for x := 0; x < 10; x++ {
			src.SetRGBA(x, y, color.RGBA{B: 255, A: 255})
		}
	}
	s := NewSurfaceSize(100, 100)
	// bottom half of the source over the bottom 30 rows
	s.DrawImage(src, image.Rect(0, 10, 10, 20), image.Rect(0, 70, 100, 100), QualityNearest)
	if c := s.Image().RGBAAt(50, 85); c.B != 255 || c.A != 255 {
		t.Fatalf("expected blue overlay, got %+v", c)
	}
	if alphaAt(s.Image(), 50, 50) != 0 {
		t.Fatalf("overlay must not paint above its destination")
	}
}
