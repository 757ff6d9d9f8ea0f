/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log provides centralized slog-based logging for molural.
// Records go to stderr (a compact console line or JSON) and optionally to a
// rotating JSON file. Every record carries the app name and version, and any
// attributes stored on the context with ContextWith.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/richmansell/molural/internal/version"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
// FromEnv reads them from:
//   - MOLURAL_LOG_LEVEL=debug|info|warn|error
//   - MOLURAL_LOG_FORMAT=console|json
//   - MOLURAL_LOG_FILE=<path> (adds a rotated JSON file)
//   - MOLURAL_LOG_SOURCE=true|false
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string
}

// Rotation limits for the log file.
const (
	fileMaxSizeMB  = 10
	fileMaxBackups = 3
	fileMaxAgeDays = 28
)

var (
	mu     sync.RWMutex
	logger *slog.Logger
	closer io.Closer
)

// L returns the process logger, initializing it from the environment on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Init replaces the process logger and slog.Default. A previously opened log
// file is closed.
func Init(opts Options) {
	var file io.WriteCloser
	if p := strings.TrimSpace(opts.File); p != "" {
		file = &lj.Logger{
			Filename:   p,
			MaxSize:    fileMaxSizeMB,
			MaxBackups: fileMaxBackups,
			MaxAge:     fileMaxAgeDays,
			Compress:   true,
		}
	}
	var fw io.Writer
	if file != nil {
		fw = file
	}
	l := slog.New(newHandler(opts, os.Stderr, fw)).With(
		slog.String("app", "molural"),
		slog.String("ver", version.String()),
	)

	mu.Lock()
	prev := closer
	logger, closer = l, file
	mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	slog.SetDefault(l)
}

// newHandler assembles the handler chain: console (or JSON) on console, plus
// a JSON copy on file when file is non-nil.
func newHandler(opts Options, console, file io.Writer) slog.Handler {
	lvl := parseLevel(opts.Level)
	ho := &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource}
	var hs fanout
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		hs = append(hs, slog.NewJSONHandler(console, ho))
	} else {
		hs = append(hs, newConsoleHandler(console, lvl, opts.AddSource))
	}
	if file != nil {
		hs = append(hs, slog.NewJSONHandler(file, ho))
	}
	if len(hs) == 1 {
		return contextHandler{next: hs[0]}
	}
	return contextHandler{next: hs}
}

// Merge returns base with every non-empty field of over applied on top.
// AddSource is enabled when either side enables it.
func Merge(base, over Options) Options {
	if strings.TrimSpace(over.Level) != "" {
		base.Level = over.Level
	}
	if strings.TrimSpace(over.Format) != "" {
		base.Format = over.Format
	}
	if strings.TrimSpace(over.File) != "" {
		base.File = over.File
	}
	base.AddSource = base.AddSource || over.AddSource
	return base
}

// FromEnv builds Options from environment variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("MOLURAL_LOG_LEVEL", "info"),
		Format:    getenv("MOLURAL_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("MOLURAL_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("MOLURAL_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

type ctxAttrsKey struct{}

// ContextWith returns a child context whose log records, when written through
// the *Context logging methods, carry attrs in addition to their own.
func ContextWith(ctx context.Context, attrs ...slog.Attr) context.Context {
	prev, _ := ctx.Value(ctxAttrsKey{}).([]slog.Attr)
	all := make([]slog.Attr, 0, len(prev)+len(attrs))
	all = append(all, prev...)
	all = append(all, attrs...)
	return context.WithValue(ctx, ctxAttrsKey{}, all)
}

func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs, _ := ctx.Value(ctxAttrsKey{}).([]slog.Attr)
	return attrs
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
