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
	"io/fs"
	"strings"
)

// A Renderer converts documents in the odie markup dialect into HTML.
// A zero Renderer is ready to use.
// A Renderer is safe to use from multiple goroutines
// as long as its fields are not modified.
//
// # Security considerations
//
// Embeds (@path) copy the contents of non-image files into the output
// without escaping them.
// Only render documents you trust, or set DisableEmbeds.
type Renderer struct {
	// Embeds is the filesystem that embed references are resolved against.
	// If Embeds is nil, references are resolved
	// against the current working directory.
	Embeds fs.FS
	// If DisableEmbeds is true, embed references are always rendered
	// as ordinary text.
	DisableEmbeds bool
}

// AppendInline appends the HTML for a single line of text to dst
// using a zero [Renderer].
func AppendInline(dst []byte, text []byte, state Style) ([]byte, Style) {
	return new(Renderer).AppendInline(dst, text, state)
}

// AppendInline appends the HTML rendering of text to dst,
// starting with the given set of open elements.
// It returns the extended slice and the set of elements left open.
// Block-level markers are not recognized.
func (r *Renderer) AppendInline(dst []byte, text []byte, state Style) ([]byte, Style) {
	for i := 0; i < len(text); {
		if state&Pre == 0 {
			var n int
			switch c := text[i]; {
			case c == '`':
				dst, state = toggle(dst, state, Code)
				i++
				continue
			case state&Code != 0:
				// Only backticks are markup inside a code span.
			case c == '~' && i+1 < len(text) && text[i+1] == '~':
				dst, state = toggle(dst, state, Strike)
				i += 2
				continue
			case c == '*':
				dst, state = toggle(dst, state, Em)
				i++
				continue
			case c == '_':
				dst, state = toggle(dst, state, Strong)
				i++
				continue
			case c == '@':
				dst, state, n = r.appendEmbed(dst, text[i+1:], state)
				i += 1 + n
				continue
			case c == '[':
				dst, state, n = r.appendLink(dst, text[i+1:], state)
				i += 1 + n
				continue
			}
			if text[i] == '\\' {
				i++
				if i >= len(text) {
					break
				}
			}
		}
		dst = appendEscapedByte(dst, text[i])
		i++
	}
	return dst, state
}

// scanToken returns the length of the longest prefix of text
// that contains none of the bytes in stops.
// A backslash includes the byte after it in the token,
// even if that byte is a stop byte.
func scanToken(text []byte, stops string) int {
	i := 0
	for i < len(text) && strings.IndexByte(stops, text[i]) < 0 {
		if text[i] == '\\' && i+1 < len(text) {
			i++
		}
		i++
	}
	return i
}

// unescapeToken removes the backslashes that scanToken honored.
func unescapeToken(tok []byte) string {
	sb := new(strings.Builder)
	sb.Grow(len(tok))
	for i := 0; i < len(tok); i++ {
		if tok[i] == '\\' && i+1 < len(tok) {
			i++
		}
		sb.WriteByte(tok[i])
	}
	return sb.String()
}

func (r *Renderer) embedFS() fs.FS {
	if r.Embeds == nil {
		return Dir(".")
	}
	return r.Embeds
}
