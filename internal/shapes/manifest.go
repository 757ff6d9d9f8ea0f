/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shapes

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed assets/*.svg assets/shapes.json assets/shapes.schema.json
var embedded embed.FS

// Manifest lists SVG shapes stored next to it.
type Manifest struct {
	Version int             `json:"version"`
	Shapes  []ManifestShape `json:"shapes"`
}

type ManifestShape struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	File string `json:"file"`
}

// Schema returns the JSON schema shape manifests are validated against.
func Schema() []byte {
	b, _ := embedded.ReadFile("assets/shapes.schema.json")
	return b
}

// ParseManifest validates data against the manifest schema and decodes it.
func ParseManifest(data []byte) (Manifest, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(Schema()), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Manifest{}, fmt.Errorf("validate manifest: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Manifest{}, fmt.Errorf("invalid manifest: %s", strings.Join(msgs, "; "))
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

// LoadManifest reads the manifest at name from fsys and registers each listed
// SVG (paths relative to the manifest). Files are read in the background;
// duplicate keys fail the whole load before anything is registered.
func (c *Catalogue) LoadManifest(fsys fs.FS, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	seen := map[string]bool{}
	var errs []error
	for _, s := range m.Shapes {
		if _, dup := c.Lookup(s.Key); dup || seen[s.Key] {
			errs = append(errs, fmt.Errorf("duplicate shape key %q", s.Key))
		}
		seen[s.Key] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", name, errors.Join(errs...))
	}
	dir := path.Dir(name)
	for _, s := range m.Shapes {
		file := path.Join(dir, s.File)
		if err := c.addSVG(s.Key, s.Name, func() ([]byte, error) { return fs.ReadFile(fsys, file) }); err != nil {
			return err
		}
	}
	return nil
}
