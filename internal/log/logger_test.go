/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func lastJSONLine(t *testing.T, b []byte) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("unmarshal json log %q: %v", lines[len(lines)-1], err)
	}
	return m
}

func TestInitWritesRotatedJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "molural.log")
	Init(Options{Level: "debug", Format: "json", File: path})
	t.Cleanup(func() { Init(Options{Level: "error"}) })

	l := WithOperation(WithComponent("wall"), "drop")
	l.Debug("shape dropped", slog.String("shape", "star"), slog.Int("index", 2))

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	m := lastJSONLine(t, b)
	want := map[string]any{"app": "molural", "component": "wall", "op": "drop", "msg": "shape dropped", "shape": "star"}
	for k, v := range want {
		if m[k] != v {
			t.Fatalf("%s = %v, want %v (record %v)", k, m[k], v, m)
		}
	}
	if m["index"] != float64(2) {
		t.Fatalf("index = %v", m["index"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
}

func TestNewHandlerFansOutToConsoleAndFile(t *testing.T) {
	var console, file bytes.Buffer
	l := slog.New(newHandler(Options{Level: "info"}, &console, &file))
	l.Debug("hidden")
	l.Warn("background failed", slog.String("src", "bg.png"))

	if strings.Contains(console.String(), "hidden") || strings.Contains(file.String(), "hidden") {
		t.Fatalf("debug record leaked below info level")
	}
	if !strings.Contains(console.String(), "WRN background failed src=bg.png") {
		t.Fatalf("console line = %q", console.String())
	}
	if m := lastJSONLine(t, file.Bytes()); m["src"] != "bg.png" || m["level"] != "WARN" {
		t.Fatalf("file record = %v", m)
	}
}

func TestNewHandlerJSONConsole(t *testing.T) {
	var console bytes.Buffer
	l := slog.New(newHandler(Options{Format: "JSON"}, &console, nil))
	l.Info("saved", slog.String("path", "wall.jpg"))
	if m := lastJSONLine(t, console.Bytes()); m["path"] != "wall.jpg" {
		t.Fatalf("json console record = %v", m)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("MOLURAL_LOG_LEVEL", "warn")
	t.Setenv("MOLURAL_LOG_FORMAT", "json")
	t.Setenv("MOLURAL_LOG_SOURCE", "TRUE")
	t.Setenv("MOLURAL_LOG_FILE", "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	if v := getenv("MOLURAL_LOG_UNSET_FOR_TEST", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback failed: %q", v)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, " Warning ": slog.LevelWarn, "ERROR": slog.LevelError, "": slog.LevelInfo, "loud": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
