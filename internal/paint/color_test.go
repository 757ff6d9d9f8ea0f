/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package paint

import (
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#FFB3BA")
	if err != nil {
		t.Fatalf("ParseHex error: %v", err)
	}
	if c != (color.NRGBA{R: 0xFF, G: 0xB3, B: 0xBA, A: 0xFF}) {
		t.Fatalf("unexpected colour: %+v", c)
	}
	if c, err := ParseHex("abc"); err != nil || c != (color.NRGBA{R: 0xAA, G: 0xBB, B: 0xCC, A: 0xFF}) {
		t.Fatalf("short form failed: %+v %v", c, err)
	}
	for _, bad := range []string{"", "#12", "#GGGGGG", "red"} {
		if _, err := ParseHex(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestHexColorFallbackAndFormat(t *testing.T) {
	if got := HexColor("nope"); got != FallbackColor {
		t.Fatalf("expected fallback, got %+v", got)
	}
	if got := Hex(HexColor("#bae1ff")); got != "#BAE1FF" {
		t.Fatalf("unexpected hex: %s", got)
	}
}
