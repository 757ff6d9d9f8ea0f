/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// PDFOptions controls PDF export. The page is sized to the image at DPI
// (points = pixels * 72 / DPI); the frame is embedded as a JPEG.
type PDFOptions struct {
	Title   string
	Author  string
	DPI     float64 // <= 0 means 96
	Quality int     // JPEG quality of the embedded frame; <= 0 means DefaultJPEGQuality
}

func (o PDFOptions) pageSize(img image.Image) gofpdf.SizeType {
	dpi := o.DPI
	if dpi <= 0 {
		dpi = 96
	}
	b := img.Bounds()
	return gofpdf.SizeType{Wd: float64(b.Dx()) * 72 / dpi, Ht: float64(b.Dy()) * 72 / dpi}
}

func buildPDF(img image.Image, opt PDFOptions) (*gofpdf.Fpdf, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("pdf: empty image")
	}
	jpg, err := EncodeJPEG(img, opt.Quality)
	if err != nil {
		return nil, err
	}
	size := opt.pageSize(img)
	// Use points so the page maps 1:1 to the computed size
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    size,
	})
	title := opt.Title
	if title == "" {
		title = "Shape Wall"
	}
	author := opt.Author
	if author == "" {
		author = "Molural"
	}
	pdf.SetTitle(title, true)
	pdf.SetAuthor(author, true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("", size)

	imgOpts := gofpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader("wall", imgOpts, bytes.NewReader(jpg))
	pdf.ImageOptions("wall", 0, 0, size.Wd, size.Ht, false, imgOpts, 0, "")
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return pdf, nil
}

// EncodePDF writes a single-page PDF holding img to w.
func EncodePDF(w io.Writer, img image.Image, opt PDFOptions) error {
	pdf, err := buildPDF(img, opt)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// WritePDF writes a single-page PDF holding img to outPath, creating the
// directory when needed.
func WritePDF(outPath string, img image.Image, opt PDFOptions) error {
	pdf, err := buildPDF(img, opt)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
