/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shapes

import (
	"math"

	"github.com/richmansell/molural/internal/vector"
)

// PathFunc builds the outline of a shape centered at (x, y) inside a
// size×size square.
type PathFunc func(x, y, size float64) vector.Path

type builtin struct {
	key, name string
	path      PathFunc
}

// Built-in vector shapes in library order.
var builtins = []builtin{
	{"circle", "Circle", circlePath},
	{"square", "Square", squarePath},
	{"triangle", "Triangle", trianglePath},
	{"star", "Star", starPath},
	{"hexagon", "Hexagon", hexagonPath},
	{"heart", "Heart", heartPath},
	{"diamond", "Diamond", diamondPath},
	{"wavy", "Wavy Circle", wavyPath},
	{"blob", "Blob", blobPath},
	{"untitled", "Untitled", untitledPath},
}

func circlePath(x, y, size float64) vector.Path {
	return vector.Circle(vector.Pt{X: x, Y: y}, size/2)
}

func squarePath(x, y, size float64) vector.Path {
	return vector.RectPath(vector.Square(vector.Pt{X: x, Y: y}, size))
}

func trianglePath(x, y, size float64) vector.Path {
	h := size / 2
	return vector.Polygon(
		vector.Pt{X: x, Y: y - h},
		vector.Pt{X: x + h, Y: y + h},
		vector.Pt{X: x - h, Y: y + h},
	)
}

func diamondPath(x, y, size float64) vector.Path {
	h := size / 2
	return vector.Polygon(
		vector.Pt{X: x, Y: y - h},
		vector.Pt{X: x + h, Y: y},
		vector.Pt{X: x, Y: y + h},
		vector.Pt{X: x - h, Y: y},
	)
}

// radial returns n points around (x, y); radius(i, angle) picks the distance.
func radial(x, y float64, n int, angle func(i int) float64, radius func(i int, a float64) float64) []vector.Pt {
	pts := make([]vector.Pt, n)
	for i := range pts {
		a := angle(i)
		r := radius(i, a)
		pts[i] = vector.Pt{X: x + math.Cos(a)*r, Y: y + math.Sin(a)*r}
	}
	return pts
}

// starPath is a five-pointed star, first point straight up, inner radius half the outer.
func starPath(x, y, size float64) vector.Path {
	const points = 5
	outer, inner := size/2, size/4
	return vector.Polygon(radial(x, y, points*2,
		func(i int) float64 { return float64(i)*math.Pi/points - math.Pi/2 },
		func(i int, _ float64) float64 {
			if i%2 == 0 {
				return outer
			}
			return inner
		})...)
}

func hexagonPath(x, y, size float64) vector.Path {
	return vector.Polygon(radial(x, y, 6,
		func(i int) float64 { return float64(i) * math.Pi / 3 },
		func(int, float64) float64 { return size / 2 })...)
}

func wavyPath(x, y, size float64) vector.Path {
	const points = 16
	return vector.Polygon(radial(x, y, points,
		func(i int) float64 { return float64(i) / points * 2 * math.Pi },
		func(_ int, a float64) float64 { return size / 2 * (0.8 + 0.2*math.Sin(a*4)) })...)
}

// scaled maps design coordinates (dx, dy) relative to the center to canvas space.
type scaled struct {
	x, y, k float64
	p       vector.Path
}

func (s *scaled) move(dx, dy float64) { s.p.MoveTo(s.x+dx*s.k, s.y+dy*s.k) }

func (s *scaled) cubic(c1x, c1y, c2x, c2y, ex, ey float64) {
	s.p.CubicTo(s.x+c1x*s.k, s.y+c1y*s.k, s.x+c2x*s.k, s.y+c2y*s.k, s.x+ex*s.k, s.y+ey*s.k)
}

// heartPath is drawn on a 100-unit design grid.
func heartPath(x, y, size float64) vector.Path {
	s := scaled{x: x, y: y, k: size / 100}
	s.move(10, 35)
	s.cubic(10, 10, -15, -10, -15, -10)
	s.cubic(-30, -10, -35, 10, -20, 25)
	s.cubic(-5, 35, 10, 50, 10, 50)
	s.cubic(10, 50, 25, 35, 40, 25)
	s.cubic(55, 10, 50, -10, 35, -10)
	s.cubic(35, -10, 10, 10, 10, 35)
	s.p.Close()
	return s.p
}

func blobPath(x, y, size float64) vector.Path {
	s := scaled{x: x, y: y, k: size / 100}
	s.move(20, -40)
	s.cubic(45, -45, 50, -20, 45, 10)
	s.cubic(50, 25, 40, 45, 15, 45)
	s.cubic(-15, 40, -45, 25, -45, 0)
	s.cubic(-50, -20, -30, -45, 10, -45)
	s.p.Close()
	return s.p
}

// untitledOutline is a hand-traced glyph on a 288×416 grid: start point then
// cubic segments (c1, c2, end).
var untitledOutline = [...]float64{
	203.881775, 61.657822,
	225.502975, 61.103149, 246.641037, 60.586517, 267.776215, 59.970444,
	273.691040, 59.798031, 274.403015, 60.248177, 274.284180, 66.279533,
	273.726776, 94.570030, 272.033203, 122.820747, 270.981445, 151.093246,
	270.216461, 171.657516, 267.807373, 192.203918, 265.210144, 212.641220,
	263.537750, 225.800888, 260.684875, 238.892105, 255.592438, 251.278152,
	247.562347, 270.809235, 233.266983, 284.892334, 215.867447, 296.165161,
	196.315796, 308.832336, 174.434586, 312.811768, 151.624176, 313.234222,
	146.625687, 313.326813, 141.590546, 312.935242, 136.631866, 313.400970,
	121.714111, 314.802185, 107.961967, 310.748932, 94.532516, 304.971344,
	92.651970, 304.162323, 90.980927, 303.049835, 89.197968, 305.135315,
	88.450294, 306.009796, 87.437523, 305.770081, 86.476028, 305.205872,
	72.592239, 297.058472, 57.955708, 290.216125, 46.101395, 278.781433,
	34.515705, 267.605865, 30.595001, 254.487213, 30.128117, 238.557022,
	29.614080, 221.018158, 31.595436, 203.250885, 27.377857, 185.843292,
	25.651068, 178.716187, 26.302794, 171.262207, 25.931833, 163.993713,
	25.043547, 146.588852, 24.528318, 129.173355, 26.354170, 111.687408,
	27.378212, 101.880280, 26.225548, 91.735107, 25.133205, 81.843887,
	23.524773, 67.279465, 23.558905, 66.805298, 38.015377, 66.836739,
	58.513756, 66.881317, 78.949959, 65.412201, 99.394775, 64.272346,
	104.152054, 64.007111, 105.513420, 65.403313, 105.396782, 70.033066,
	104.762939, 95.192711, 106.773796, 120.271599, 108.513268, 145.330948,
	109.339226, 157.229965, 110.211891, 169.341904, 113.541107, 180.823349,
	117.143913, 193.248306, 123.748055, 204.177292, 136.413040, 209.533615,
	143.397690, 212.487595, 150.658463, 211.794754, 157.788177, 208.971252,
	173.198990, 202.868317, 175.114441, 189.286499, 176.172729, 175.542725,
	177.862839, 153.593735, 174.565018, 131.615082, 175.926147, 109.666641,
	176.783157, 95.847015, 177.006302, 82.089218, 175.923996, 68.286934,
	175.471680, 62.518417, 176.436722, 61.711555, 182.398392, 61.676525,
	189.397919, 61.635395, 196.397812, 61.661366, 203.881775, 61.657822,
}

const (
	untitledW = 288
	untitledH = 416
)

// untitledPath scales by the taller edge so the glyph fits the square.
func untitledPath(x, y, size float64) vector.Path {
	k := size / untitledH
	at := func(px, py float64) (float64, float64) {
		return x + (px-untitledW/2)*k, y + (py-untitledH/2)*k
	}
	var p vector.Path
	p.MoveTo(at(untitledOutline[0], untitledOutline[1]))
	for i := 2; i+5 < len(untitledOutline); i += 6 {
		c1x, c1y := at(untitledOutline[i], untitledOutline[i+1])
		c2x, c2y := at(untitledOutline[i+2], untitledOutline[i+3])
		ex, ey := at(untitledOutline[i+4], untitledOutline[i+5])
		p.CubicTo(c1x, c1y, c2x, c2y, ex, ey)
	}
	p.Close()
	return p
}
