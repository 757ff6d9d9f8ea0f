/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls writing one frame in several formats.
//
// Files are named FileName(Time, ext) inside OutDir; an empty OutDir means a
// folder named after the preset in the working directory.
type BatchOptions struct {
	Preset  PresetName
	Formats []string // allowed: jpeg (jpg), png, pdf; empty means preset defaults
	OutDir  string
	Time    time.Time // zero means now
	Quality int       // JPEG quality, also used for the PDF's embedded frame
}

// Batch writes img in every requested format and returns the written paths.
func Batch(img image.Image, opt BatchOptions) ([]string, error) {
	if img == nil {
		return nil, fmt.Errorf("batch export: nil image")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
		if baseOut == "" {
			baseOut = "."
		}
	}
	if err := os.MkdirAll(baseOut, 0o755); err != nil {
		return nil, fmt.Errorf("ensure out dir: %w", err)
	}
	ts := opt.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var written []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		switch f {
		case "jpeg", "jpg":
			out := filepath.Join(baseOut, FileName(ts, "jpg"))
			if err := writeFile(out, func(fh *os.File) error { return WriteJPEG(fh, img, opt.Quality) }); err != nil {
				return written, fmt.Errorf("jpeg: %w", err)
			}
			written = append(written, out)
		case "png":
			out := filepath.Join(baseOut, FileName(ts, "png"))
			if err := writeFile(out, func(fh *os.File) error { return WritePNG(fh, img) }); err != nil {
				return written, fmt.Errorf("png: %w", err)
			}
			written = append(written, out)
		case "pdf":
			out := filepath.Join(baseOut, FileName(ts, "pdf"))
			po := PDFOptions{DPI: presetDPI(opt.Preset), Quality: opt.Quality}
			if err := WritePDF(out, img, po); err != nil {
				return written, fmt.Errorf("pdf: %w", err)
			}
			written = append(written, out)
		default:
			return written, fmt.Errorf("unknown format: %s", f)
		}
	}
	return written, nil
}

// WriteFile picks the encoder from path's extension (.jpg/.jpeg, .png, .pdf).
func WriteFile(path string, img image.Image, quality int) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return writeFile(path, func(fh *os.File) error { return WriteJPEG(fh, img, quality) })
	case ".png":
		return writeFile(path, func(fh *os.File) error { return WritePNG(fh, img) })
	case ".pdf":
		return WritePDF(path, img, PDFOptions{Quality: quality})
	default:
		return fmt.Errorf("unsupported export format %q", filepath.Ext(path))
	}
}

func writeFile(path string, encode func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encode(fh); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"jpeg", "png"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"jpeg"}
	}
}

func presetDPI(p PresetName) float64 {
	if p == PresetPrint {
		return 300
	}
	return 96
}
