/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	applog "github.com/richmansell/molural/internal/log"
	"github.com/richmansell/molural/internal/paint"
	"github.com/richmansell/molural/internal/undo"
	"github.com/richmansell/molural/internal/wall"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type CanvasConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Opacity float64 `yaml:"opacity"`
	Color   string  `yaml:"color"`
	// Background is an image path, "brick" for the built-in pattern, or empty.
	Background string `yaml:"background"`
	// InteractiveHeight is the boundary in background image pixels.
	InteractiveHeight float64 `yaml:"interactive_height" split_words:"true"`
	Scaler            string  `yaml:"scaler"` // "fast" | "nearest" | "best"
}

type ShapesConfig struct {
	// Manifest is an optional shapes.json adding SVG shapes to the built-in set.
	Manifest string `yaml:"manifest"`
}

type ExportConfig struct {
	Dir     string   `yaml:"dir"`
	Quality int      `yaml:"quality"`
	Preset  string   `yaml:"preset"`  // "", "web" or "print"
	Formats []string `yaml:"formats"` // overrides the preset when set
}

type GalleryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Keep    int    `yaml:"keep"`
}

type UndoConfig struct {
	MaxBytes      int `yaml:"max_bytes" split_words:"true"`
	MaxDepth      int `yaml:"max_depth" split_words:"true"`
	MinIntervalMs int `yaml:"min_interval_ms" split_words:"true"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version" ignored:"true"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Shapes        ShapesConfig  `yaml:"shapes"`
	Export        ExportConfig  `yaml:"export"`
	Gallery       GalleryConfig `yaml:"gallery"`
	Undo          UndoConfig    `yaml:"undo"`
	Logging       LoggingConfig `yaml:"logging"`
}

// EnvPrefix prefixes every override, e.g. MOLURAL_CANVAS_OPACITY or
// MOLURAL_UNDO_MAX_DEPTH.
const EnvPrefix = "MOLURAL"

// Defaults returns the application defaults.
func Defaults() AppConfig {
	gallery := "gallery.sqlite"
	if dir, err := ConfigDir(); err == nil {
		gallery = filepath.Join(dir, "gallery.sqlite")
	}
	return AppConfig{
		ConfigVersion: 1,
		Canvas: CanvasConfig{
			Width:             800,
			Height:            600,
			Opacity:           wall.DefaultOpacity,
			Color:             wall.DefaultColor,
			Background:        "brick",
			InteractiveHeight: wall.ReferenceInteractiveHeight,
			Scaler:            "best",
		},
		Export:  ExportConfig{Dir: ".", Quality: wall.JPEGQuality},
		Gallery: GalleryConfig{Enabled: true, Path: gallery, Keep: 5},
		Undo:    UndoConfig{MaxBytes: 16 << 20, MaxDepth: 100, MinIntervalMs: 400},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// ConfigDir returns the per-user configuration directory.
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Molural")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Molural")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "molural")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "molural")
		}
	}
	if base == "" || base == "molural" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the user config file (if present) over the defaults and applies
// environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		if eerr := applyEnvOverrides(&cfg); eerr != nil {
			return cfg, eerr
		}
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file is not an error.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Defaults(), fmt.Errorf("parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	normalize(&cfg)
	return cfg, cfg.Validate()
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func applyEnvOverrides(cfg *AppConfig) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("env overrides: %w", err)
	}
	return nil
}

func normalize(cfg *AppConfig) {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
	cfg.Canvas.Scaler = strings.ToLower(strings.TrimSpace(cfg.Canvas.Scaler))
	cfg.Canvas.Background = strings.TrimSpace(cfg.Canvas.Background)
	cfg.Export.Preset = strings.ToLower(strings.TrimSpace(cfg.Export.Preset))
	for i, f := range cfg.Export.Formats {
		cfg.Export.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
}

// Validate reports values the app cannot run with.
func (c AppConfig) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height))
	}
	if c.Canvas.Opacity < 0 || c.Canvas.Opacity > 1 {
		errs = append(errs, fmt.Errorf("canvas opacity %v outside [0,1]", c.Canvas.Opacity))
	}
	if c.Canvas.Color != "" {
		if _, err := paint.ParseHex(c.Canvas.Color); err != nil {
			errs = append(errs, fmt.Errorf("canvas color: %w", err))
		}
	}
	if c.Export.Quality < 1 || c.Export.Quality > 100 {
		errs = append(errs, fmt.Errorf("export quality %d outside 1..100", c.Export.Quality))
	}
	switch c.Export.Preset {
	case "", "web", "print":
	default:
		errs = append(errs, fmt.Errorf("unknown export preset %q", c.Export.Preset))
	}
	if c.Gallery.Keep < 0 {
		errs = append(errs, fmt.Errorf("gallery keep %d is negative", c.Gallery.Keep))
	}
	return errors.Join(errs...)
}

// EnvOverrideFor returns the env var name if the dotted YAML key (for example
// "canvas.opacity") is overridden by the environment.
func EnvOverrideFor(key string) (string, bool) {
	name := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if _, ok := os.LookupEnv(name); ok {
		return name, true
	}
	return "", false
}

// WallConfig converts the canvas and undo sections for wall.New.
func (c AppConfig) WallConfig() wall.Config {
	return wall.Config{
		Width:           c.Canvas.Width,
		Height:          c.Canvas.Height,
		Opacity:         c.Canvas.Opacity,
		Color:           c.Canvas.Color,
		ReferenceHeight: c.Canvas.InteractiveHeight,
		Quality:         paint.ParseQuality(c.Canvas.Scaler),
		Undo: undo.Config{
			MaxBytes:    c.Undo.MaxBytes,
			MaxDepth:    c.Undo.MaxDepth,
			MinInterval: time.Duration(c.Undo.MinIntervalMs) * time.Millisecond,
		},
	}
}

// LogOptions converts the logging section for log.Init.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		AddSource: c.Logging.Source,
		File:      c.Logging.File,
	}
}
