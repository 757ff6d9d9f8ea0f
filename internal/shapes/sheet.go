/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shapes

import (
	"context"
	"image"
	"image/color"

	"golang.org/x/image/font/basicfont"

	"github.com/richmansell/molural/internal/paint"
	"github.com/richmansell/molural/internal/vector"
)

// Preview cell layout: the shape is drawn like a library thumbnail (50×50 at
// size 40) with its name to the right.
const (
	PreviewCell  = 50
	PreviewSize  = 40
	previewLabel = 110
)

var (
	sheetBackground = color.NRGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	sheetText       = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// PreviewSheet renders every catalogue entry in a grid of cols columns. It
// waits for pending SVG shapes first; entries that failed to load are left
// blank apart from their label.
func PreviewSheet(ctx context.Context, c *Catalogue, col color.Color, cols int) (*image.RGBA, error) {
	if err := c.Wait(ctx); err != nil {
		return nil, err
	}
	if cols < 1 {
		cols = 1
	}
	entries := c.Entries()
	rows := (len(entries) + cols - 1) / cols
	cellW := PreviewCell + previewLabel
	s := paint.NewSurfaceSize(cols*cellW, rows*PreviewCell)
	s.FillRect(vector.R(0, 0, float64(s.Width()), float64(s.Height())), sheetBackground)
	face := basicfont.Face7x13
	for i, e := range entries {
		ox := float64(i%cols*cellW)
		oy := float64(i/cols*PreviewCell)
		c.Draw(s, e.Key, ox+PreviewCell/2, oy+PreviewCell/2, PreviewSize, col)
		s.Text(e.Name, ox+PreviewCell+4, oy+PreviewCell/2+float64(face.Ascent)/2, face, sheetText)
	}
	return s.Image(), nil
}
