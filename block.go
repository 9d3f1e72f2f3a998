// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package odie

import (
	"bytes"

	"golang.org/x/net/html/atom"
)

const (
	fenceMarker = "```"
	quoteMarker = ">"
	listMarker  = "* "
)

// headingMarkers is ordered longest marker first.
// Only the first match is used.
var headingMarkers = [...]struct {
	marker string
	flag   Style
}{
	{"### ", H3},
	{"## ", H2},
	{"# ", H1},
}

// AppendLine appends the HTML for a single source line to dst
// using a zero [Renderer].
func AppendLine(dst []byte, line []byte, state Style) ([]byte, Style) {
	return new(Renderer).AppendLine(dst, line, state)
}

// AppendLine appends the HTML rendering of a single source line to dst,
// starting with the set of elements left open by the previous line.
// line should include its line terminator, if any.
// AppendLine returns the extended slice
// and the set of elements to pass along with the next line.
//
// Block rules are applied in this order:
// code fence, fenced content, block quote, list item, paragraph break, heading.
func (r *Renderer) AppendLine(dst []byte, line []byte, state Style) ([]byte, Style) {
	if bytes.HasPrefix(line, []byte(fenceMarker)) {
		// Anything after the fence marker is ignored.
		return toggle(dst, state, Pre)
	}
	if state&Pre != 0 {
		return r.AppendInline(dst, line, state)
	}

	line = trimLeftSpace(line)

	if rest, ok := bytes.CutPrefix(line, []byte(quoteMarker)); ok {
		if state&Quote == 0 {
			dst, state = toggle(dst, state, Quote)
		}
		line = trimLeftSpace(rest)
	} else if state&Quote != 0 && len(line) == 0 {
		dst, state = toggle(dst, state, Quote)
	}

	if rest, ok := bytes.CutPrefix(line, []byte(listMarker)); ok {
		if state&List == 0 {
			dst, state = toggle(dst, state, List)
		}
		// List items are terminated implicitly
		// by the next item or the end of the list.
		dst = appendOpenTag(dst, atom.Li)
		line = rest
	} else if state&List != 0 && len(line) == 0 {
		dst, state = toggle(dst, state, List)
	}

	if len(line) == 0 {
		dst = appendOpenTag(dst, atom.P)
	}

	for _, h := range headingMarkers {
		if rest, ok := bytes.CutPrefix(line, []byte(h.marker)); ok {
			dst, state = toggle(dst, state, h.flag)
			line = rest
			break
		}
	}

	dst, state = r.AppendInline(dst, line, state)

	// Headings never span lines.
	for _, h := range headingMarkers {
		if state&h.flag != 0 {
			dst, state = toggle(dst, state, h.flag)
		}
	}
	return dst, state
}

func trimLeftSpace(line []byte) []byte {
	for len(line) > 0 && isSpace(line[0]) {
		line = line[1:]
	}
	return line
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r'
}
