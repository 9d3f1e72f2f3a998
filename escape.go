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

import "go4.org/bytereplacer"

// escapes lists each byte that is special in HTML, followed by its entity.
var escapes = []string{
	"&", "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
}

var htmlEscaper = bytereplacer.New(escapes...)

// entities maps a byte to its entity, or to "" if it needs no escaping.
var entities = func() (t [256]string) {
	for i := 0; i < len(escapes); i += 2 {
		t[escapes[i][0]] = escapes[i+1]
	}
	return t
}()

// appendEscapedByte appends c to dst,
// replacing it with its entity if it is special in HTML.
func appendEscapedByte(dst []byte, c byte) []byte {
	if e := entities[c]; e != "" {
		return append(dst, e...)
	}
	return append(dst, c)
}

// EscapeString replaces the characters <, >, &, " and '
// with their HTML entities.
// It uses the same mapping as the renderer uses for document text.
func EscapeString(s string) string {
	return string(htmlEscaper.Replace([]byte(s)))
}

// appendAttr appends an attribute value to dst.
// No markup is recognized, but a backslash still escapes the byte after it
// and is dropped, so that link destinations may contain a closing parenthesis.
// This differs from fenced text, where backslashes are kept:
// the destination scanner already treats "\)" as an escape,
// and keeping the backslash would put it in the URL.
func appendAttr(dst []byte, value []byte) []byte {
	for i := 0; i < len(value); i++ {
		if value[i] == '\\' {
			i++
			if i >= len(value) {
				break
			}
		}
		dst = appendEscapedByte(dst, value[i])
	}
	return dst
}
