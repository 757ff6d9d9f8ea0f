//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	molapp "github.com/richmansell/molural/internal/app"
	"github.com/richmansell/molural/internal/config"
	"github.com/richmansell/molural/internal/crash"
	"github.com/richmansell/molural/internal/export"
	applog "github.com/richmansell/molural/internal/log"
	"github.com/richmansell/molural/internal/paint"
	"github.com/richmansell/molural/internal/palette"
	"github.com/richmansell/molural/internal/shapes"
	"github.com/richmansell/molural/internal/version"
	"github.com/richmansell/molural/internal/wall"
)

const (
	iconSize       = 48
	galleryRecent  = 5
	prefsWinWidth  = "window.width"
	prefsWinHeight = "window.height"
	prefsColor     = "wall.color"
	prefsOpacity   = "wall.opacity"
)

// Run starts the Fyne desktop shell around a wall built from cfg.
func Run(cfg config.AppConfig) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))

	cs := &crash.Session{}
	if dir, err := config.ConfigDir(); err == nil {
		cs.Dir = filepath.Join(dir, "crash")
	}
	defer crash.Recover(cs)

	fyneApp := app.NewWithID("io.github.richmansell.molural")
	w := fyneApp.NewWindow("Molural Shape Wall")
	// Restore window size and last wall settings from preferences
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback(prefsWinWidth, 1100)
	winH := prefs.IntWithFallback(prefsWinHeight, 760)
	if winW < 900 {
		winW = 900
	}
	if winH < 640 {
		winH = 640
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))
	cfg.Canvas.Color = prefs.StringWithFallback(prefsColor, cfg.Canvas.Color)
	cfg.Canvas.Opacity = prefs.FloatWithFallback(prefsOpacity, cfg.Canvas.Opacity)

	ctx := context.Background()
	sess, err := molapp.Open(ctx, cfg, molapp.Options{Post: fyne.Do})
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			l.Warn("close session", slog.Any("err", err))
		}
	}()
	m := sess.Wall
	cs.Export = m.ExportJPEG
	cs.Shapes = m.Len

	status := widget.NewLabel("Pick a shape, then click the wall to place it")
	wc := newWallCanvas(m, fyne.NewSize(float32(cfg.Canvas.Width), float32(cfg.Canvas.Height)))
	wc.onStatus = status.SetText

	// Palette (right)
	swatches := make([]*widget.Button, len(palette.Pastels))
	highlight := func(hex string) {
		idx := palette.IndexOf(hex)
		for i, b := range swatches {
			if i == idx {
				b.Importance = widget.HighImportance
			} else {
				b.Importance = widget.MediumImportance
			}
			b.Refresh()
		}
	}
	swatchObjs := make([]fyne.CanvasObject, 0, len(palette.Pastels))
	for i, hex := range palette.Pastels {
		hex := hex
		swatches[i] = widget.NewButton(hex, func() {
			m.SetColor(hex)
			m.UpdateSelectedColor(hex)
			prefs.SetString(prefsColor, hex)
			highlight(hex)
		})
		bg := canvas.NewRectangle(paint.HexColor(hex))
		bg.CornerRadius = 4
		swatchObjs = append(swatchObjs, container.NewStack(bg, swatches[i]))
	}
	highlight(m.Color())

	opacity := widget.NewSlider(0, 100)
	opacity.Value = m.Opacity() * 100
	opacityLabel := widget.NewLabel(fmt.Sprintf("Opacity %d%%", int(opacity.Value)))
	opacity.OnChanged = func(v float64) {
		m.SetOpacity(v / 100)
		opacityLabel.SetText(fmt.Sprintf("Opacity %d%%", int(v)))
	}
	opacity.OnChangeEnded = func(v float64) { prefs.SetFloat(prefsOpacity, v/100) }

	m.OnSelect(func(i int) {
		if sh, ok := m.Shape(i); ok {
			highlight(sh.Color)
			name := sh.Key
			if e, ok := sess.Catalogue.Lookup(sh.Key); ok {
				name = e.Name
			}
			status.SetText(fmt.Sprintf("Selected %s: drag to move, corners resize, blue handle rotates, +/- rotate, Delete removes", name))
			return
		}
		highlight(m.Color())
	})

	right := container.NewVBox(
		widget.NewLabelWithStyle("Colour", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2, swatchObjs...),
		widget.NewSeparator(),
		opacityLabel,
		opacity,
	)

	// Shape library (left)
	libButtons := map[string]*widget.Button{}
	var libObjs []fyne.CanvasObject
	for _, e := range sess.Catalogue.Entries() {
		e := e
		b := widget.NewButton(e.Name, func() {
			wc.arm(e.Key)
			status.SetText("Click the wall above the line to place: " + e.Name)
		})
		b.Alignment = widget.ButtonAlignLeading
		libButtons[e.Key] = b
		libObjs = append(libObjs, b)
	}
	go func() {
		// SVG shapes get their icons once loaded
		_ = sess.Catalogue.Wait(ctx)
		icons := shapeIcons(sess.Catalogue)
		fyne.Do(func() {
			for key, res := range icons {
				if b, ok := libButtons[key]; ok {
					b.SetIcon(res)
				}
			}
		})
	}()
	left := container.NewBorder(
		widget.NewLabelWithStyle("Shapes", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), nil, nil, nil,
		container.NewVScroll(container.NewVBox(libObjs...)),
	)

	// Toolbar (top)
	confirm := func(message string, answer func(bool)) {
		dialog.ShowConfirm("Clear wall", message, answer, w)
	}
	undoBtn := widget.NewButtonWithIcon("Undo", theme.ContentUndoIcon(), func() {
		if !m.Undo() {
			status.SetText("Nothing to undo")
		}
	})
	redoBtn := widget.NewButtonWithIcon("Redo", theme.ContentRedoIcon(), func() {
		if !m.Redo() {
			status.SetText("Nothing to redo")
		}
	})
	clearBtn := widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), func() { m.Clear(confirm) })
	saveBtn := widget.NewButtonWithIcon("Save JPEG", theme.DocumentSaveIcon(), func() { saveDialog(ctx, sess, w, status) })
	exportBtn := widget.NewButtonWithIcon("Export", theme.UploadIcon(), func() {
		paths, err := sess.ExportBatch(ctx)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText(fmt.Sprintf("Exported %d file(s) to %s", len(paths), filepath.Dir(paths[0])))
	})
	galleryBtn := widget.NewButtonWithIcon("Gallery", theme.GridIcon(), func() { showGallery(ctx, fyneApp, sess, w) })
	if sess.Gallery == nil {
		galleryBtn.Disable()
	}
	top := container.NewHBox(undoBtn, redoBtn, clearBtn, widget.NewSeparator(), saveBtn, exportBtn, galleryBtn)

	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { m.Undo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { m.Redo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { saveDialog(ctx, sess, w, status) })

	w.SetContent(container.NewBorder(top, status, left, right, wc))
	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt(prefsWinWidth, int(sz.Width))
		prefs.SetInt(prefsWinHeight, int(sz.Height))
	})
	sess.StartBackground()
	w.Canvas().Focus(wc)
	w.ShowAndRun()
	return nil
}

func saveDialog(ctx context.Context, sess *molapp.Session, w fyne.Window, status *widget.Label) {
	if sess.Wall.Len() == 0 {
		dialog.ShowInformation("Save", "Place a few shapes first.", w)
		return
	}
	d := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if uc == nil {
			return
		}
		path := uc.URI().Path()
		_ = uc.Close()
		if err := sess.SaveFile(ctx, path); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Saved " + path)
	}, w)
	d.SetFileName(sess.DefaultFileName())
	d.Show()
}

func showGallery(ctx context.Context, a fyne.App, sess *molapp.Session, parent fyne.Window) {
	entries, err := sess.Gallery.Recent(ctx, galleryRecent)
	if err != nil {
		dialog.ShowError(err, parent)
		return
	}
	if len(entries) == 0 {
		dialog.ShowInformation("Gallery", "No saved walls yet.", parent)
		return
	}
	gw := a.NewWindow("Recent walls")
	var cards []fyne.CanvasObject
	for _, e := range entries {
		src := e.Thumb
		if len(src) == 0 {
			src = e.JPEG
		}
		img, _, err := image.Decode(bytes.NewReader(src))
		if err != nil {
			continue
		}
		ci := canvas.NewImageFromImage(img)
		ci.FillMode = canvas.ImageFillContain
		ci.SetMinSize(fyne.NewSize(200, 150))
		caption := fmt.Sprintf("%s · %d shapes", e.CreatedAt.Local().Format(time.DateTime), e.Shapes)
		cards = append(cards, container.NewVBox(ci, widget.NewLabel(caption)))
	}
	gw.SetContent(container.NewVScroll(container.NewGridWithColumns(2, cards...)))
	gw.Resize(fyne.NewSize(460, 520))
	gw.Show()
}

// shapeIcons renders every ready shape as a small PNG resource for the library buttons.
func shapeIcons(c *shapes.Catalogue) map[string]fyne.Resource {
	out := map[string]fyne.Resource{}
	for _, e := range c.Entries() {
		s := paint.NewSurfaceSize(iconSize, iconSize)
		if !c.Draw(s, e.Key, iconSize/2, iconSize/2, iconSize-6, color.NRGBA{R: 90, G: 90, B: 110, A: 255}) {
			continue
		}
		var buf bytes.Buffer
		if err := export.WritePNG(&buf, s.Image()); err != nil {
			continue
		}
		out[e.Key] = fyne.NewStaticResource(e.Key+".png", buf.Bytes())
	}
	return out
}

// wallCanvas shows the wall frame and forwards pointer and keyboard input to it.
type wallCanvas struct {
	widget.BaseWidget
	m       *wall.Manager
	img     *canvas.Image
	minSize fyne.Size

	armed    string // shape key placed by the next click
	onStatus func(string)
}

func newWallCanvas(m *wall.Manager, min fyne.Size) *wallCanvas {
	wc := &wallCanvas{m: m, minSize: min}
	wc.img = canvas.NewImageFromImage(m.Frame())
	wc.img.FillMode = canvas.ImageFillStretch
	wc.img.ScaleMode = canvas.ImageScaleFastest
	m.OnRender(func() {
		wc.img.Image = m.Frame()
		wc.img.Refresh()
	})
	wc.ExtendBaseWidget(wc)
	return wc
}

func (wc *wallCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(wc.img)
}

func (wc *wallCanvas) MinSize() fyne.Size { return wc.minSize }

// Resize keeps one wall pixel per canvas unit so pointer positions need no mapping.
func (wc *wallCanvas) Resize(size fyne.Size) {
	wc.BaseWidget.Resize(size)
	w, h := int(size.Width), int(size.Height)
	if cw, ch := wc.m.Size(); cw != w || ch != h {
		wc.m.Resize(w, h)
	}
}

func (wc *wallCanvas) arm(key string) { wc.armed = key }

func (wc *wallCanvas) status(s string) {
	if wc.onStatus != nil {
		wc.onStatus(s)
	}
}

func (wc *wallCanvas) MouseDown(e *desktop.MouseEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(wc); c != nil {
		c.Focus(wc)
	}
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	x, y := float64(e.Position.X), float64(e.Position.Y)
	if wc.armed != "" {
		key := wc.armed
		wc.armed = ""
		if !wc.m.Drop(x, y, key) {
			wc.status("Shapes can only be placed above the line")
		}
		return
	}
	wc.m.PointerDown(x, y)
}

func (wc *wallCanvas) MouseUp(*desktop.MouseEvent) { wc.m.PointerUp() }

func (wc *wallCanvas) MouseIn(*desktop.MouseEvent) {}

func (wc *wallCanvas) MouseMoved(e *desktop.MouseEvent) {
	wc.m.PointerMove(float64(e.Position.X), float64(e.Position.Y))
}

func (wc *wallCanvas) MouseOut() {}

func (wc *wallCanvas) Dragged(e *fyne.DragEvent) {
	wc.m.PointerMove(float64(e.Position.X), float64(e.Position.Y))
}

func (wc *wallCanvas) DragEnd() { wc.m.PointerUp() }

func (wc *wallCanvas) FocusGained() {}
func (wc *wallCanvas) FocusLost()   {}

func (wc *wallCanvas) TypedRune(r rune) { wc.m.KeyPress(string(r)) }

func (wc *wallCanvas) TypedKey(e *fyne.KeyEvent) {
	switch e.Name {
	case fyne.KeyDelete:
		wc.m.KeyPress("Delete")
	case fyne.KeyBackspace:
		wc.m.KeyPress("Backspace")
	}
}

// Cursor maps the wall's hover cursor; fyne has no diagonal resize cursors.
func (wc *wallCanvas) Cursor() desktop.Cursor {
	if wc.armed != "" {
		return desktop.CrosshairCursor
	}
	switch wc.m.Cursor() {
	case wall.CursorGrab:
		return desktop.PointerCursor
	case wall.CursorResizeNWSE:
		return desktop.HResizeCursor
	case wall.CursorResizeNESW:
		return desktop.VResizeCursor
	default:
		return desktop.CrosshairCursor
	}
}
