/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package palette

import (
	"testing"

	"github.com/richmansell/molural/internal/paint"
)

func TestPastelsParseAndLookup(t *testing.T) {
	if len(Pastels) != 10 {
		t.Fatalf("expected 10 pastel colours, got %d", len(Pastels))
	}
	for i, c := range Pastels {
		if _, err := paint.ParseHex(c); err != nil {
			t.Fatalf("palette entry %d invalid: %v", i, err)
		}
		if IndexOf(c) != i {
			t.Fatalf("IndexOf(%s) = %d, want %d", c, IndexOf(c), i)
		}
	}
	if Default() != "#FFB3BA" {
		t.Fatalf("unexpected default colour %s", Default())
	}
	if IndexOf("#bae1ff") != 5 || IndexOf("#000000") != -1 {
		t.Fatalf("case-insensitive lookup failed")
	}
}
