/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestPath_QuadAndCubic_Bounds(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.QuadTo(10, 10, 20, 0)
	p.CubicTo(30, -10, 40, 10, 50, 0)
	p.Close()

	b := p.Bounds()
	// With our approximation including control points, min/max should reflect extremes
	if b.X != 0 || b.Y != -10 || b.W != 50 || b.H != 20 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}

func TestPolygonAndTransform(t *testing.T) {
	p := Polygon(Pt{0, 0}, Pt{10, 0}, Pt{0, 10})
	if len(p.Cmds) != 4 || p.Cmds[3].Op != Close {
		t.Fatalf("expected 3 points plus close, got %+v", p.Cmds)
	}
	moved := p.Transform(Translate(5, 5))
	bb := moved.Bounds()
	if bb.X != 5 || bb.Y != 5 || bb.W != 10 || bb.H != 10 {
		t.Fatalf("unexpected transformed bounds: %+v", bb)
	}
	// source path untouched
	if b := p.Bounds(); b.X != 0 || b.Y != 0 {
		t.Fatalf("transform mutated the source path: %+v", b)
	}
}

func TestCircleBounds(t *testing.T) {
	c := Circle(Pt{50, 50}, 20)
	b := c.Bounds()
	if b.X != 30 || b.Y != 30 || b.W != 40 || b.H != 40 {
		t.Fatalf("unexpected circle bounds: %+v", b)
	}
	var empty Path
	if !empty.Empty() || empty.Bounds() != (Rect{}) {
		t.Fatalf("empty path should have zero bounds")
	}
}
