/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package wall

import (
	"fmt"
	"image"
	"io"

	"github.com/richmansell/molural/internal/export"
)

// ExportJPEG writes the current frame, selection UI included, as a JPEG.
func (m *Manager) ExportJPEG(w io.Writer) error {
	if m.width == 0 || m.height == 0 {
		return fmt.Errorf("export wall: empty canvas %dx%d", m.width, m.height)
	}
	return export.WriteJPEG(w, m.Frame(), JPEGQuality)
}

// Snapshot returns a copy of the current frame.
func (m *Manager) Snapshot() *image.RGBA {
	src := m.Frame()
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}
