/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shapes

import (
	"strings"
	"testing"
)

func TestRecolorReplacesFills(t *testing.T) {
	out := string(Recolor([]byte(`<svg><rect x="1" fill="#FF6B6B"/><circle r="2" fill='blue'/></svg>`), "#BAFFC9"))
	if strings.Contains(out, "#FF6B6B") || strings.Contains(out, "blue") {
		t.Fatalf("original fills survived: %s", out)
	}
	if strings.Count(out, `fill="#BAFFC9"`) != 2 {
		t.Fatalf("expected two injected fills: %s", out)
	}
}

func TestRecolorKeepsNoneAndInsertsMissing(t *testing.T) {
	out := string(Recolor([]byte(`<svg><path d="M0 0" fill="none" stroke="#FF6B6B"/><polygon points="0,0 1,1"/></svg>`), "#E0BBE4"))
	if !strings.Contains(out, `fill="none"`) {
		t.Fatalf("fill none must be kept: %s", out)
	}
	if !strings.Contains(out, `stroke="#E0BBE4"`) {
		t.Fatalf("hex stroke should follow the colour: %s", out)
	}
	if !strings.Contains(out, `<polygon fill="#E0BBE4" points`) {
		t.Fatalf("polygon without fill should get one: %s", out)
	}
}

func TestRecolorSplitsRGBA(t *testing.T) {
	out := string(Recolor([]byte(`<svg><path d="M0 0" fill="#FF6B6B" stroke="rgba(0, 0, 0, 0.2)"/></svg>`), "#FFFFBA"))
	if !strings.Contains(out, `stroke="rgb(0,0,0)" stroke-opacity="0.2"`) {
		t.Fatalf("rgba stroke not split: %s", out)
	}
	if strings.Contains(out, "fill-opacity") {
		t.Fatalf("unexpected fill opacity: %s", out)
	}
}

func TestEmbeddedShapesParse(t *testing.T) {
	m, err := ParseManifest(mustRead(t, "assets/shapes.json"))
	if err != nil {
		t.Fatalf("embedded manifest: %v", err)
	}
	for _, s := range m.Shapes {
		src := mustRead(t, "assets/"+s.File)
		if _, err := parseSVG(Recolor(src, "#BAE1FF")); err != nil {
			t.Fatalf("%s: %v", s.File, err)
		}
	}
}

func mustRead(t *testing.T, name string) []byte {
	t.Helper()
	b, err := embedded.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return b
}
