/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "image/color"

// Styles and paint definitions.

var (
	Black = color.NRGBA{0, 0, 0, 255}
	White = color.NRGBA{255, 255, 255, 255}
)

// RGBA builds a straight-alpha colour from 0-255 channels and a 0..1 alpha,
// the way CSS rgba() values are written.
func RGBA(r, g, b uint8, a float64) color.NRGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a*255 + 0.5)}
}

type Stroke struct {
	Color   color.NRGBA
	Width   float64
	Dash    []float64 // on/off lengths; empty means solid
	Enabled bool
}

// Solid returns an enabled stroke without dashes.
func Solid(c color.NRGBA, width float64) Stroke {
	return Stroke{Color: c, Width: width, Enabled: true}
}

// Dashed returns an enabled stroke with the given dash pattern.
func Dashed(c color.NRGBA, width float64, dash ...float64) Stroke {
	return Stroke{Color: c, Width: width, Dash: dash, Enabled: true}
}
