/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "fmt"

// Script is a parsed replay script: a flat list of wall input events.
type Script struct {
	Events []Event
}

// Op identifies the command of an event line.
type Op int

const (
	OpUnknown Op = iota
	OpSize
	OpBackground
	OpColor
	OpRecolor
	OpOpacity
	OpDrop
	OpDown
	OpMove
	OpUp
	OpKey
	OpSelect
	OpDelete
	OpClear
	OpUndo
	OpRedo
)

var opNames = map[string]Op{
	"size":       OpSize,
	"background": OpBackground,
	"color":      OpColor,
	"colour":     OpColor,
	"recolor":    OpRecolor,
	"opacity":    OpOpacity,
	"drop":       OpDrop,
	"down":       OpDown,
	"move":       OpMove,
	"up":         OpUp,
	"key":        OpKey,
	"select":     OpSelect,
	"delete":     OpDelete,
	"clear":      OpClear,
	"undo":       OpUndo,
	"redo":       OpRedo,
}

func (o Op) String() string {
	for name, op := range opNames {
		if op == o && name != "colour" {
			return name
		}
	}
	return "unknown"
}

// Event is one command with its decoded arguments. Which fields are set
// depends on Op:
//
//	size W H          -> W, H
//	background SRC    -> Text ("brick" or an image path)
//	color HEX         -> Text
//	recolor HEX       -> Text (recolours the selected shape)
//	opacity A         -> Value (0..1, or a percentage when > 1)
//	drop KEY X Y      -> Text, X, Y
//	down X Y, move X Y -> X, Y
//	key NAME          -> Text
//	select I, delete I -> Index
type Event struct {
	Op     Op
	Text   string
	X, Y   float64
	W, H   int
	Value  float64
	Index  int
	LineNo int // 1-based line number in the source
}

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}
