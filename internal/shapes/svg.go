/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shapes

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/richmansell/molural/internal/paint"
	"github.com/richmansell/molural/internal/vector"
)

var (
	// rgba() is outside the colour syntax oksvg reads; split it into rgb() plus an opacity attribute.
	rgbaAttr    = regexp.MustCompile(`(fill|stroke)\s*=\s*["']rgba\(\s*([^,\s]+)\s*,\s*([^,\s]+)\s*,\s*([^,\s]+)\s*,\s*([^)\s]+)\s*\)["']`)
	fillAttr    = regexp.MustCompile(`(\s)fill\s*=\s*("[^"]*"|'[^']*')`)
	hexStroke   = regexp.MustCompile(`(\s)stroke\s*=\s*("#[^"]*"|'#[^']*')`)
	shapeTag    = regexp.MustCompile(`<(path|circle|rect|polygon|ellipse|polyline)\b([^>]*)>`)
	hasFillAttr = regexp.MustCompile(`\sfill\s*=`)
)

// Recolor rewrites an SVG document so that its shapes paint in hex:
// explicit fills (other than "none") and hex strokes are replaced, and shape
// elements without a fill get one.
func Recolor(src []byte, hex string) []byte {
	s := rgbaAttr.ReplaceAllString(string(src), `$1="rgb($2,$3,$4)" $1-opacity="$5"`)
	s = shapeTag.ReplaceAllStringFunc(s, func(tag string) string {
		m := shapeTag.FindStringSubmatch(tag)
		if hasFillAttr.MatchString(m[2]) {
			return tag
		}
		return "<" + m[1] + ` fill="` + hex + `"` + m[2] + ">"
	})
	s = fillAttr.ReplaceAllStringFunc(s, func(attr string) string {
		m := fillAttr.FindStringSubmatch(attr)
		if strings.EqualFold(strings.Trim(m[2], `"'`), "none") {
			return attr
		}
		return m[1] + `fill="` + hex + `"`
	})
	s = hexStroke.ReplaceAllString(s, `${1}stroke="`+hex+`"`)
	return []byte(s)
}

// maxTints bounds the per-shape cache of recoloured icons.
const maxTints = 32

// svgShape is one SVG catalogue entry. src is nil until loading finishes.
type svgShape struct {
	mu    sync.Mutex
	src   []byte
	err   error
	done  chan struct{}
	tints map[string]*oksvg.SvgIcon
}

func newSVGShape() *svgShape {
	return &svgShape{done: make(chan struct{}), tints: map[string]*oksvg.SvgIcon{}}
}

// finish records the load result exactly once.
func (v *svgShape) finish(src []byte, err error) {
	v.mu.Lock()
	v.src, v.err = src, err
	v.mu.Unlock()
	close(v.done)
}

func (v *svgShape) ready() bool {
	select {
	case <-v.done:
		v.mu.Lock()
		defer v.mu.Unlock()
		return v.err == nil
	default:
		return false
	}
}

func (v *svgShape) loadErr() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// parseSVG checks that src is a drawable SVG with a usable viewBox.
func parseSVG(src []byte) (*oksvg.SvgIcon, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, fmt.Errorf("parse svg: missing or empty viewBox")
	}
	return icon, nil
}

// tint returns the icon recoloured to hex, parsing it on first use. Caller holds v.mu.
func (v *svgShape) tint(hex string) (*oksvg.SvgIcon, error) {
	if icon, ok := v.tints[hex]; ok {
		return icon, nil
	}
	icon, err := parseSVG(Recolor(v.src, hex))
	if err != nil {
		return nil, err
	}
	if len(v.tints) >= maxTints {
		clear(v.tints)
	}
	v.tints[hex] = icon
	return icon, nil
}

// draw stretches the viewBox over the size×size square centered at (x, y),
// under the surface transform, alpha and clip.
func (v *svgShape) draw(s *paint.Surface, x, y, size float64, hex string) bool {
	if !v.ready() {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	icon, err := v.tint(hex)
	if err != nil {
		return false
	}
	vb := icon.ViewBox
	m := s.Transform().
		Mul(vector.Translate(x-size/2, y-size/2)).
		Mul(vector.Scale(size/vb.W, size/vb.H)).
		Mul(vector.Translate(-vb.X, -vb.Y))
	icon.Transform = rasterx.Matrix2D{A: m.A, B: m.B, C: m.C, D: m.D, E: m.E, F: m.F}

	img := s.Image()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	scanner.SetClip(s.ClipBounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), s.Alpha())
	return true
}
