/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var batchDay = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestBatch_WebPreset(t *testing.T) {
	root := t.TempDir()
	paths, err := Batch(testFrame(), BatchOptions{Preset: PresetWeb, OutDir: filepath.Join(root, "web"), Time: batchDay})
	if err != nil {
		t.Fatalf("batch export web: %v", err)
	}
	checks := []string{
		filepath.Join(root, "web", "shape_wall_2025-06-01.jpg"),
		filepath.Join(root, "web", "shape_wall_2025-06-01.png"),
	}
	if len(paths) != len(checks) {
		t.Fatalf("expected %d files, got %v", len(checks), paths)
	}
	for _, p := range checks {
		st, err := os.Stat(p)
		if err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
		if st.Size() <= 0 {
			t.Fatalf("empty file: %s", p)
		}
	}
}

func TestBatch_PrintPreset(t *testing.T) {
	root := t.TempDir()
	if _, err := Batch(testFrame(), BatchOptions{Preset: PresetPrint, OutDir: root, Time: batchDay}); err != nil {
		t.Fatalf("batch export print: %v", err)
	}
	checks := []string{
		filepath.Join(root, "shape_wall_2025-06-01.pdf"),
		filepath.Join(root, "shape_wall_2025-06-01.png"),
	}
	for _, p := range checks {
		st, err := os.Stat(p)
		if err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
		if st.Size() <= 0 {
			t.Fatalf("empty file: %s", p)
		}
	}
}

func TestBatch_UnknownFormat(t *testing.T) {
	if _, err := Batch(testFrame(), BatchOptions{Formats: []string{"tiff"}, OutDir: t.TempDir()}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWriteFile_ByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.pdf"} {
		if err := WriteFile(filepath.Join(dir, name), testFrame(), 90); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	if err := WriteFile(filepath.Join(dir, "e.gif"), testFrame(), 90); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
