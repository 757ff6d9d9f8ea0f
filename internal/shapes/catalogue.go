/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package shapes is the catalogue of shapes that can be placed on the wall.
//
// Built-in shapes are vector outlines filled synchronously. SVG shapes are
// loaded in the background; until an entry is ready its Draw reports false
// and the caller is expected to repaint once OnReady fires.
package shapes

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"sync"

	applog "github.com/richmansell/molural/internal/log"
	"github.com/richmansell/molural/internal/paint"
)

// ErrUnknownShape is returned for keys that are not in the catalogue.
var ErrUnknownShape = errors.New("unknown shape")

// Kind tells how an entry is drawn.
type Kind int

const (
	KindVector Kind = iota
	KindSVG
)

func (k Kind) String() string {
	if k == KindSVG {
		return "svg"
	}
	return "vector"
}

// Entry describes one catalogue shape.
type Entry struct {
	Key  string
	Name string
	Kind Kind
}

// Catalogue maps shape keys to draw procedures. It is safe for concurrent use.
type Catalogue struct {
	mu      sync.RWMutex
	entries []Entry
	vec     map[string]PathFunc
	svg     map[string]*svgShape
	onReady func(key string)
	pending sync.WaitGroup
	log     *slog.Logger
}

// New returns an empty catalogue.
func New() *Catalogue {
	return &Catalogue{
		vec: map[string]PathFunc{},
		svg: map[string]*svgShape{},
		log: applog.WithComponent("shapes"),
	}
}

// Builtin returns a catalogue holding only the vector shapes.
func Builtin() *Catalogue {
	c := New()
	for _, b := range builtins {
		_ = c.AddVector(b.key, b.name, b.path)
	}
	return c
}

// Default returns the built-in vector shapes followed by the embedded SVG set.
// SVG entries become drawable asynchronously.
func Default() (*Catalogue, error) {
	c := Builtin()
	if err := c.LoadManifest(embedded, "assets/shapes.json"); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalogue) add(e Entry) error {
	if e.Key == "" {
		return fmt.Errorf("add shape: empty key")
	}
	if _, ok := c.lookupLocked(e.Key); ok {
		return fmt.Errorf("add shape %q: duplicate key", e.Key)
	}
	if e.Name == "" {
		e.Name = e.Key
	}
	c.entries = append(c.entries, e)
	return nil
}

// AddVector registers a shape whose outline is built by fn and filled.
func (c *Catalogue) AddVector(key, name string, fn PathFunc) error {
	if fn == nil {
		return fmt.Errorf("add shape %q: nil path builder", key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.add(Entry{Key: key, Name: name, Kind: KindVector}); err != nil {
		return err
	}
	c.vec[key] = fn
	return nil
}

// AddSVG registers an SVG shape from source bytes. The document is parsed in
// the background.
func (c *Catalogue) AddSVG(key, name string, src []byte) error {
	return c.addSVG(key, name, func() ([]byte, error) { return src, nil })
}

// AddSVGFile registers an SVG shape read from path in the background.
func (c *Catalogue) AddSVGFile(key, name, path string) error {
	return c.addSVG(key, name, func() ([]byte, error) { return os.ReadFile(path) })
}

func (c *Catalogue) addSVG(key, name string, fetch func() ([]byte, error)) error {
	c.mu.Lock()
	if err := c.add(Entry{Key: key, Name: name, Kind: KindSVG}); err != nil {
		c.mu.Unlock()
		return err
	}
	v := newSVGShape()
	c.svg[key] = v
	c.pending.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.pending.Done()
		src, err := fetch()
		if err == nil {
			_, err = parseSVG(src)
		}
		if err != nil {
			err = fmt.Errorf("load svg shape %q: %w", key, err)
			c.log.Warn("svg shape unavailable", slog.String("key", key), slog.Any("err", err))
		}
		v.finish(src, err)
		if err != nil {
			return
		}
		c.mu.RLock()
		fn := c.onReady
		c.mu.RUnlock()
		if fn != nil {
			fn(key)
		}
	}()
	return nil
}

// OnReady installs a callback run (on a background goroutine) each time an
// SVG shape finishes loading.
func (c *Catalogue) OnReady(fn func(key string)) {
	c.mu.Lock()
	c.onReady = fn
	c.mu.Unlock()
}

// Wait blocks until every pending SVG load has finished or ctx is done.
func (c *Catalogue) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether key can be drawn right now.
func (c *Catalogue) Ready(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.vec[key]; ok {
		return true
	}
	if v, ok := c.svg[key]; ok {
		return v.ready()
	}
	return false
}

// Err returns the load error of an SVG entry, ErrUnknownShape for unknown
// keys, and nil otherwise.
func (c *Catalogue) Err(key string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.svg[key]; ok {
		return v.loadErr()
	}
	if _, ok := c.vec[key]; ok {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownShape, key)
}

func (c *Catalogue) lookupLocked(key string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Lookup returns the entry registered under key.
func (c *Catalogue) Lookup(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookupLocked(key)
}

// Keys returns all keys in registration order.
func (c *Catalogue) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of all entries in registration order.
func (c *Catalogue) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Entry(nil), c.entries...)
}

func (c *Catalogue) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Draw paints shape key centered at (x, y) in a size×size square on s, using
// the surface's current transform and alpha. It reports false when the key is
// unknown or the shape is not ready yet; nothing is painted in that case.
func (c *Catalogue) Draw(s *paint.Surface, key string, x, y, size float64, col color.Color) bool {
	c.mu.RLock()
	fn, isVec := c.vec[key]
	v, isSVG := c.svg[key]
	c.mu.RUnlock()
	switch {
	case isVec:
		s.FillPath(fn(x, y, size), col)
		return true
	case isSVG:
		return v.draw(s, x, y, size, paint.Hex(col))
	}
	return false
}
