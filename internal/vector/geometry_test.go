/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
	out := Square(Pt{100, 100}, 240).Inset(-8, -8)
	if out.X != -28 || out.W != 256 {
		t.Fatalf("unexpected grown square: %+v", out)
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 { // (1*2+10, 1*3+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
	inv, ok := m.Invert()
	if !ok {
		t.Fatalf("expected invertible matrix")
	}
	back := inv.Apply(p)
	if math.Abs(back.X-1) > 1e-9 || math.Abs(back.Y-1) > 1e-9 {
		t.Fatalf("inverse did not round-trip: %+v", back)
	}
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Fatalf("expected singular matrix to report false")
	}
}

func TestRotateAboutKeepsCenterFixed(t *testing.T) {
	c := Pt{100, 50}
	m := RotateAbout(c, 90)
	got := m.Apply(c)
	if math.Abs(got.X-c.X) > 1e-9 || math.Abs(got.Y-c.Y) > 1e-9 {
		t.Fatalf("center moved: %+v", got)
	}
	// a point right of the center ends up below it (y grows downwards)
	q := m.Apply(Pt{110, 50})
	if math.Abs(q.X-100) > 1e-9 || math.Abs(q.Y-60) > 1e-9 {
		t.Fatalf("unexpected rotated point: %+v", q)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	cases := map[float64]float64{0: 0, 15: 15, 360: 0, 375: 15, -15: 345, -360: 0, -735: 345, 359.5: 359.5}
	for in, want := range cases {
		if got := NormalizeDegrees(in); got != want {
			t.Fatalf("NormalizeDegrees(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestPtWithinIsStrict(t *testing.T) {
	if (Pt{0, 0}).Within(Pt{3, 4}, 5) {
		t.Fatalf("distance 5 must not be within radius 5")
	}
	if !(Pt{0, 0}).Within(Pt{3, 4}, 5.01) {
		t.Fatalf("distance 5 should be within radius 5.01")
	}
}
