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
	"strings"

	"golang.org/x/net/html/atom"
)

// Style is the set of HTML elements that are currently open
// while a document is being rendered.
// Each flag corresponds to exactly one element.
// The zero value is the state at the beginning of a document.
type Style uint16

const (
	// Pre is set inside a fenced code block.
	// While it is set, no markup is recognized.
	Pre Style = 1 << iota
	// Code is set inside a code span.
	Code
	// Em is set inside emphasized text.
	Em
	// Strong is set inside strong text.
	Strong
	// Strike is set inside struck-through text.
	Strike
	// H1 is set inside a level 1 heading.
	H1
	// H2 is set inside a level 2 heading.
	H2
	// H3 is set inside a level 3 heading.
	H3
	// List is set inside an unordered list.
	List
	// Quote is set inside a block quote.
	Quote
)

var styleNames = [...]string{
	"Pre",
	"Code",
	"Em",
	"Strong",
	"Strike",
	"H1",
	"H2",
	"H3",
	"List",
	"Quote",
}

// String returns the flag names joined by "|", or "0" if no flags are set.
func (s Style) String() string {
	if s == 0 {
		return "0"
	}
	sb := new(strings.Builder)
	for i, name := range styleNames {
		if s&(1<<i) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(name)
	}
	return sb.String()
}

// tag returns the element that a single flag corresponds to.
func (s Style) tag() atom.Atom {
	switch s {
	case Pre:
		return atom.Pre
	case Code:
		return atom.Code
	case Em:
		return atom.Em
	case Strong:
		return atom.Strong
	case Strike:
		return atom.Strike
	case H1:
		return atom.H1
	case H2:
		return atom.H2
	case H3:
		return atom.H3
	case List:
		return atom.Ul
	case Quote:
		return atom.Blockquote
	default:
		panic("tag called on " + s.String())
	}
}

// toggle flips a single flag, appending the closing tag
// if the element was open or the opening tag if it was not.
func toggle(dst []byte, state, flag Style) ([]byte, Style) {
	if state&flag != 0 {
		return appendCloseTag(dst, flag.tag()), state &^ flag
	}
	return appendOpenTag(dst, flag.tag()), state | flag
}

// closeOrder is the order in which [AppendClose] closes elements.
// Inline elements are closed before the blocks that contain them.
var closeOrder = [...]Style{Pre, Code, Strike, Strong, Em, H3, H2, H1, List, Quote}

// AppendClose appends the closing tags for every element open in state
// to dst and returns the resulting byte slice.
// Documents are closed this way at end of input
// so that unterminated constructs never leak out of the page body.
//
// A Style does not record the order in which elements were opened,
// so the closing order is fixed (see closeOrder), not the reverse of
// the opening order. Inline elements opened as "_a *b" are closed as
// "</strong></em>", which is misnested; HTML parsers recover from it.
func AppendClose(dst []byte, state Style) []byte {
	for _, flag := range closeOrder {
		if state&flag != 0 {
			dst, state = toggle(dst, state, flag)
		}
	}
	return dst
}

func appendOpenTag(dst []byte, name atom.Atom) []byte {
	dst = append(dst, '<')
	dst = append(dst, name.String()...)
	return append(dst, '>')
}

func appendCloseTag(dst []byte, name atom.Atom) []byte {
	dst = append(dst, "</"...)
	dst = append(dst, name.String()...)
	return append(dst, '>')
}
