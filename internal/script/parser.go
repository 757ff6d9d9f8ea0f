/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var reField = regexp.MustCompile(`\S+`)

// Parse parses a replay script into events.
// Supported syntax:
//   - One command per line, arguments separated by whitespace; command names
//     are case-insensitive.
//   - Lines starting with ";" or "//" are comments, blank lines are skipped.
//   - "background" takes the rest of the line, so paths may contain spaces.
//
// Parsing continues after a bad line; every problem is reported with its
// line and the 1-based column of the offending token.
func Parse(input string) (Script, []Error) {
	s := Script{Events: []Event{}}
	var errs []Error

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, ";") || strings.HasPrefix(trim, "//") {
			continue
		}

		locs := reField.FindAllStringIndex(line, -1)
		fields := make([]string, len(locs))
		for i, l := range locs {
			fields[i] = line[l[0]:l[1]]
		}
		col := func(i int) int {
			if i >= len(locs) {
				return len(line) + 1
			}
			return locs[i][0] + 1
		}
		fail := func(i int, format string, args ...any) {
			errs = append(errs, Error{Line: lineNo, Column: col(i), Message: fmt.Sprintf(format, args...)})
		}

		name := strings.ToLower(fields[0])
		op, ok := opNames[name]
		if !ok {
			fail(0, "unknown command %q", fields[0])
			continue
		}
		ev := Event{Op: op, LineNo: lineNo}
		args := fields[1:]

		want := func(n int) bool {
			if len(args) < n {
				fail(len(fields), "%s needs %d argument(s), got %d", name, n, len(args))
				return false
			}
			if len(args) > n {
				fail(n+1, "unexpected argument %q", args[n])
				return false
			}
			return true
		}
		num := func(i int, dst *float64) bool {
			v, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				fail(i+1, "invalid number %q", args[i])
				return false
			}
			*dst = v
			return true
		}
		integer := func(i int, dst *int) bool {
			v, err := strconv.Atoi(args[i])
			if err != nil {
				fail(i+1, "invalid integer %q", args[i])
				return false
			}
			*dst = v
			return true
		}

		good := false
		switch op {
		case OpSize:
			good = want(2) && integer(0, &ev.W) && integer(1, &ev.H)
			if good && (ev.W < 0 || ev.H < 0) {
				fail(1, "size must not be negative")
				good = false
			}
		case OpBackground:
			if len(args) == 0 {
				good = want(1)
				break
			}
			ev.Text = strings.TrimSpace(line[locs[1][0]:])
			good = true
		case OpColor, OpRecolor:
			if good = want(1); good {
				if !strings.HasPrefix(args[0], "#") {
					fail(1, "colour must start with '#': %q", args[0])
					good = false
				}
				ev.Text = args[0]
			}
		case OpOpacity:
			good = want(1) && num(0, &ev.Value)
			if good && ev.Value > 1 {
				ev.Value /= 100
			}
		case OpDrop:
			if want(3) {
				ev.Text = args[0]
				good = num(1, &ev.X) && num(2, &ev.Y)
			}
		case OpDown, OpMove:
			good = want(2) && num(0, &ev.X) && num(1, &ev.Y)
		case OpKey:
			if good = want(1); good {
				ev.Text = args[0]
			}
		case OpSelect, OpDelete:
			good = want(1) && integer(0, &ev.Index)
		default: // up, clear, undo, redo
			good = want(0)
		}
		if good {
			s.Events = append(s.Events, ev)
		}
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return s, errs
}
