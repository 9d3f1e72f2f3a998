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

// appendLink handles the text after a '[' marker.
// It returns the number of bytes of text consumed.
//
// A well-formed link does not change the caller's state:
// elements opened or closed inside the link text
// are discarded along with the link text's final state.
func (r *Renderer) appendLink(dst []byte, text []byte, state Style) ([]byte, Style, int) {
	n := scanToken(text, "]")
	label := text[:n]
	if !bytes.HasPrefix(text[n:], []byte("](")) {
		// Leave the closing bracket (if any) to be written as text.
		dst = append(dst, '[')
		dst, state = r.AppendInline(dst, label, state)
		return dst, state, n
	}
	destStart := n + len("](")
	m := scanToken(text[destStart:], ")")
	dest := text[destStart : destStart+m]
	end := destStart + m
	if end < len(text) {
		// Consume the closing parenthesis.
		end++
	}

	dst = append(dst, '<')
	dst = append(dst, atom.A.String()...)
	dst = append(dst, ` href="`...)
	dst = appendAttr(dst, dest)
	dst = append(dst, `">`...)
	dst, _ = r.AppendInline(dst, label, state)
	dst = appendCloseTag(dst, atom.A)
	return dst, state, end
}
