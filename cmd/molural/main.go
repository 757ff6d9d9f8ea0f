/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/richmansell/molural/internal/app"
	"github.com/richmansell/molural/internal/config"
	"github.com/richmansell/molural/internal/crash"
	"github.com/richmansell/molural/internal/export"
	applog "github.com/richmansell/molural/internal/log"
	"github.com/richmansell/molural/internal/paint"
	"github.com/richmansell/molural/internal/script"
	"github.com/richmansell/molural/internal/shapes"
	"github.com/richmansell/molural/internal/storage"
	"github.com/richmansell/molural/internal/ui"
	"github.com/richmansell/molural/internal/version"
)

func usage() {
	fmt.Println("Molural - shape wall editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  molural version|-v|--version           Show version")
	fmt.Println("  molural ui                             Launch desktop UI (build with -tags fyne for full UI)")
	fmt.Println("  molural shapes [out.png]               List shapes and write a preview sheet")
	fmt.Println("  molural render <script> <out>          Replay an event script and save the wall (.jpg, .png or .pdf)")
	fmt.Println("  molural gallery [n]                    List the n most recent saved walls")
	fmt.Println("  molural gallery get <id> <out.jpg>     Write a saved wall back to disk")
	fmt.Println("  molural config                         Print the config path and effective values")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	cs := &crash.Session{}
	defer crash.Recover(cs)

	cfg, err := config.Load()
	if err != nil {
		l.Error("load config failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	applog.Init(applog.Merge(applog.FromEnv(), cfg.LogOptions()))
	l = applog.WithComponent("cli")
	if dir, err := config.ConfigDir(); err == nil {
		cs.Dir = filepath.Join(dir, "crash")
	}

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	ctx := context.Background()
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Molural - shape wall editor")
		fmt.Println(version.String())
		return
	case "ui":
		err = ui.Run(cfg)
	case "shapes":
		out := "shapes.png"
		if len(args) >= 3 {
			out = args[2]
		}
		err = runShapes(ctx, cfg, out)
	case "render":
		if len(args) < 4 {
			fmt.Println("render requires <script> and <out>")
			usage()
			os.Exit(2)
		}
		err = runRender(ctx, cfg, cs, args[2], args[3])
	case "gallery":
		err = runGallery(ctx, cfg, args[2:])
	case "config":
		err = runConfig(cfg)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		l.Error("command failed", slog.String("cmd", args[1]), slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func runShapes(ctx context.Context, cfg config.AppConfig, out string) error {
	cat, err := shapes.Default()
	if err != nil {
		return err
	}
	if p := cfg.Shapes.Manifest; p != "" {
		if err := cat.LoadManifest(os.DirFS(filepath.Dir(p)), filepath.Base(p)); err != nil {
			return err
		}
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KEY\tNAME\tKIND")
	for _, e := range cat.Entries() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Name, e.Kind)
	}
	_ = tw.Flush()

	sheet, err := shapes.PreviewSheet(ctx, cat, paint.HexColor(cfg.Canvas.Color), 5)
	if err != nil {
		return err
	}
	if err := export.WriteFile(out, sheet, cfg.Export.Quality); err != nil {
		return err
	}
	fmt.Println("Wrote preview sheet to", out)
	return nil
}

func runRender(ctx context.Context, cfg config.AppConfig, cs *crash.Session, scriptPath, out string) error {
	s, err := script.ParseFile(scriptPath)
	if err != nil {
		return err
	}
	sess, err := app.Open(ctx, cfg, app.Options{})
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()
	cs.Export = sess.Wall.ExportJPEG
	cs.Shapes = sess.Wall.Len

	if err := sess.WaitShapes(ctx); err != nil {
		return err
	}
	sess.StartBackground()
	dir := filepath.Dir(scriptPath)
	r := script.Runner{LoadBackground: func(src string, w, h int) (image.Image, error) {
		if !strings.EqualFold(src, script.BrickBackground) && !filepath.IsAbs(src) {
			src = filepath.Join(dir, src)
		}
		return sess.LoadBackground(src, w, h)
	}}
	st, err := r.Run(applog.ContextWith(ctx, slog.String("script", filepath.Base(scriptPath))), sess.Wall, s)
	if err != nil {
		return err
	}
	if err := sess.SaveFile(ctx, out); err != nil {
		return err
	}
	fmt.Printf("Replayed %d events (%d ignored), %d shapes -> %s\n", st.Applied+st.Ignored, st.Ignored, sess.Wall.Len(), out)
	return nil
}

func runGallery(ctx context.Context, cfg config.AppConfig, args []string) error {
	g, err := storage.Open(ctx, cfg.Gallery.Path, cfg.Gallery.Keep)
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	if len(args) > 0 && args[0] == "get" {
		if len(args) < 3 {
			return fmt.Errorf("gallery get requires <id> and <out.jpg>")
		}
		e, err := g.Get(ctx, args[1])
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[2], e.JPEG, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", args[2], err)
		}
		fmt.Println("Wrote", args[2])
		return nil
	}

	n := g.Keep()
	if len(args) > 0 {
		if n, err = strconv.Atoi(args[0]); err != nil || n <= 0 {
			return fmt.Errorf("invalid count %q", args[0])
		}
	}
	entries, err := g.Recent(ctx, n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No saved walls in", g.Path())
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSAVED\tSHAPES\tSIZE")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%dx%d\n", e.ID, e.CreatedAt.Local().Format(time.DateTime), e.Shapes, e.Width, e.Height)
	}
	return tw.Flush()
}

func runConfig(cfg config.AppConfig) error {
	if p, err := config.ConfigPath(); err == nil {
		fmt.Println("Config file:", p)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(b))
	for _, key := range []string{"canvas.width", "canvas.height", "canvas.opacity", "canvas.color", "canvas.background", "gallery.path", "logging.level"} {
		if name, ok := config.EnvOverrideFor(key); ok {
			fmt.Printf("# %s overridden by %s\n", key, name)
		}
	}
	return nil
}
