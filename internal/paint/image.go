/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package paint

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	// extra background formats
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Quality selects the resampling kernel used when stretching images.
type Quality int

const (
	QualityFast Quality = iota // approximate bilinear
	QualityNearest
	QualityBest // Catmull-Rom
)

// ParseQuality maps config values ("fast", "nearest", "best") to a Quality.
// Unknown values fall back to QualityFast.
func ParseQuality(s string) Quality {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest":
		return QualityNearest
	case "best", "catmullrom":
		return QualityBest
	default:
		return QualityFast
	}
}

func (q Quality) String() string {
	switch q {
	case QualityNearest:
		return "nearest"
	case QualityBest:
		return "best"
	default:
		return "fast"
	}
}

func (q Quality) scaler() xdraw.Scaler {
	switch q {
	case QualityNearest:
		return xdraw.NearestNeighbor
	case QualityBest:
		return xdraw.CatmullRom
	default:
		return xdraw.ApproxBiLinear
	}
}

// DrawImage stretches the sr portion of src over dr (device space) with
// source-over compositing at the current global alpha. The transform and clip
// are not applied; the wall only blits axis-aligned background slices.
func (s *Surface) DrawImage(src image.Image, sr image.Rectangle, dr image.Rectangle, q Quality) {
	if src == nil || sr.Empty() || dr.Empty() || s.alpha <= 0 {
		return
	}
	var opts *xdraw.Options
	if s.alpha < 1 {
		opts = &xdraw.Options{DstMask: image.NewUniform(color.Alpha{A: uint8(s.alpha*255 + 0.5)})}
	}
	q.scaler().Scale(s.img, dr, src, sr, xdraw.Over, opts)
}

// Decode reads an image in any registered format (png, jpeg, gif, webp, bmp).
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// LoadImageFile opens and decodes the image at path.
func LoadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()
	img, _, err := Decode(f)
	return img, err
}

// Brick tile colours.
var (
	brickFill   = color.NRGBA{R: 0xc4, G: 0xa5, B: 0x75, A: 0xff}
	brickStroke = color.NRGBA{R: 0xa0, G: 0x84, B: 0x5f, A: 0xff}
)

const brickTile = 100

// BrickPattern renders a w×h image tiled with 100px brick cells, each split
// into four outlined quarters. Used as a stand-in background.
func BrickPattern(w, h int) *image.RGBA {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	dc := gg.NewContext(w, h)
	dc.SetColor(brickFill)
	dc.Clear()
	dc.SetLineWidth(1)
	dc.SetColor(brickStroke)
	for ty := 0; ty < h; ty += brickTile {
		for tx := 0; tx < w; tx += brickTile {
			x, y := float64(tx), float64(ty)
			dc.DrawRectangle(x, y, brickTile, brickTile)
			dc.DrawRectangle(x+brickTile/2, y, brickTile/2, brickTile/2)
			dc.DrawRectangle(x, y+brickTile/2, brickTile/2, brickTile/2)
			dc.DrawRectangle(x+brickTile/2, y+brickTile/2, brickTile/2, brickTile/2)
			dc.Stroke()
		}
	}
	if rgba, ok := dc.Image().(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, xdraw.Src)
	return out
}
