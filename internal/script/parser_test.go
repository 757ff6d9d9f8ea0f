/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "testing"

func TestParseEvents(t *testing.T) {
	input := `; build a small wall
size 800 600
background brick
COLOR #BAFFC9

drop circle 300 200
down 300 200
move 340.5 220
up
// rotate twice
key +
key +
opacity 60
recolor #ffdfba
select 0
delete 0
clear
undo
redo`

	s, errs := Parse(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(s.Events) != 16 {
		t.Fatalf("expected 16 events, got %d", len(s.Events))
	}
	if e := s.Events[0]; e.Op != OpSize || e.W != 800 || e.H != 600 || e.LineNo != 2 {
		t.Fatalf("unexpected size event: %+v", e)
	}
	if e := s.Events[1]; e.Op != OpBackground || e.Text != "brick" {
		t.Fatalf("unexpected background event: %+v", e)
	}
	if e := s.Events[2]; e.Op != OpColor || e.Text != "#BAFFC9" {
		t.Fatalf("command names are case-insensitive, got %+v", e)
	}
	if e := s.Events[3]; e.Op != OpDrop || e.Text != "circle" || e.X != 300 || e.Y != 200 || e.LineNo != 6 {
		t.Fatalf("unexpected drop event: %+v", e)
	}
	if e := s.Events[5]; e.Op != OpMove || e.X != 340.5 || e.Y != 220 {
		t.Fatalf("unexpected move event: %+v", e)
	}
	if e := s.Events[9]; e.Op != OpOpacity || e.Value != 0.6 {
		t.Fatalf("percent opacity should be scaled, got %+v", e)
	}
	if e := s.Events[10]; e.Op != OpRecolor || e.Text != "#ffdfba" {
		t.Fatalf("unexpected recolor event: %+v", e)
	}
	if e := s.Events[12]; e.Op != OpDelete || e.Index != 0 {
		t.Fatalf("unexpected delete event: %+v", e)
	}
	if s.Events[15].Op != OpRedo || s.Events[15].Op.String() != "redo" {
		t.Fatalf("unexpected last event: %+v", s.Events[15])
	}
}

func TestBackgroundKeepsSpaces(t *testing.T) {
	s, errs := Parse("background   my walls/brick wall.png  ")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if s.Events[0].Text != "my walls/brick wall.png" {
		t.Fatalf("unexpected background path: %q", s.Events[0].Text)
	}
}

func TestParseErrorsCarryPosition(t *testing.T) {
	input := `jump 1 2
drop circle x 5
size 10
up now
color pink
select one
drop star 10 20`

	s, errs := Parse(input)
	if len(s.Events) != 1 || s.Events[0].Text != "star" {
		t.Fatalf("valid lines must still parse, got %+v", s.Events)
	}
	want := []Error{
		{Line: 1, Column: 1},
		{Line: 2, Column: 13},
		{Line: 3, Column: 8},
		{Line: 4, Column: 4},
		{Line: 5, Column: 7},
		{Line: 6, Column: 8},
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %+v", len(want), errs)
	}
	for i, w := range want {
		if errs[i].Line != w.Line || errs[i].Column != w.Column {
			t.Fatalf("error %d at %d:%d, want %d:%d (%s)", i, errs[i].Line, errs[i].Column, w.Line, w.Column, errs[i].Message)
		}
		if errs[i].Message == "" {
			t.Fatalf("error %d has no message", i)
		}
	}
	if got := errs[0].Error(); got != `line 1, column 1: unknown command "jump"` {
		t.Fatalf("unexpected error text: %s", got)
	}
}

func TestNegativeSizeRejected(t *testing.T) {
	_, errs := Parse("size -1 10")
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %+v", errs)
	}
}
