/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes finished wall frames to disk: JPEG (the format the
// wall is saved and shared in), PNG and single-page PDF, plus named presets
// that produce several formats at once.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"time"
)

// DefaultJPEGQuality matches the quality the wall has always been saved at.
const DefaultJPEGQuality = 95

// FileName returns the dated download name, e.g. shape_wall_2025-03-14.jpg.
func FileName(t time.Time, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" {
		ext = "jpg"
	}
	return "shape_wall_" + t.Format("2006-01-02") + "." + ext
}

// Flatten composites img over an opaque matte. JPEG has no alpha channel;
// transparent canvas areas come out as the matte colour.
func Flatten(img image.Image, matte color.Color) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(matte), image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}

// WriteJPEG flattens img onto black and encodes it. quality <= 0 selects
// DefaultJPEGQuality; values above 100 are clamped.
func WriteJPEG(w io.Writer, img image.Image, quality int) error {
	if img == nil {
		return fmt.Errorf("write jpeg: nil image")
	}
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	if quality > 100 {
		quality = 100
	}
	if err := jpeg.Encode(w, Flatten(img, color.Black), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

// EncodeJPEG is WriteJPEG into a byte slice.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJPEG(&buf, img, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG encodes img losslessly, keeping transparency.
func WritePNG(w io.Writer, img image.Image) error {
	if img == nil {
		return fmt.Errorf("write png: nil image")
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
