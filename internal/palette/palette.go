/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package palette holds the pastel colours offered by the colour picker.
package palette

import "strings"

// Pastels in display order. The first entry is the default drop colour.
var Pastels = []string{
	"#FFB3BA",
	"#FFCCCB",
	"#FFDFBA",
	"#FFFFBA",
	"#BAFFC9",
	"#BAE1FF",
	"#E0BBE4",
	"#C9BAFF",
	"#FFC9E3",
	"#D4C5B9",
}

// Default returns the colour new shapes get before the user picks one.
func Default() string { return Pastels[0] }

// IndexOf returns the palette position of hex (case-insensitive) or -1.
func IndexOf(hex string) int {
	for i, c := range Pastels {
		if strings.EqualFold(c, strings.TrimSpace(hex)) {
			return i
		}
	}
	return -1
}
