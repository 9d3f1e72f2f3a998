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

import "testing"

func TestAppendEscapedByte(t *testing.T) {
	special := map[byte]string{
		'<':  "&lt;",
		'>':  "&gt;",
		'&':  "&amp;",
		'"':  "&quot;",
		'\'': "&apos;",
	}
	for i := 0; i < 256; i++ {
		c := byte(i)
		want, ok := special[c]
		if !ok {
			want = string([]byte{c})
		}
		if got := appendEscapedByte(nil, c); string(got) != want {
			t.Errorf("appendEscapedByte(nil, %q) = %q; want %q", c, got, want)
		}
	}
}

func TestEscapeString(t *testing.T) {
	tests := []struct {
		s    string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{`a < b && c > "d" 'e'`, "a &lt; b &amp;&amp; c &gt; &quot;d&quot; &apos;e&apos;"},
		{"&amp;", "&amp;amp;"},
	}
	for _, test := range tests {
		if got := EscapeString(test.s); got != test.want {
			t.Errorf("EscapeString(%q) = %q; want %q", test.s, got, test.want)
		}
	}
}

func TestAppendAttr(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"http://example.com/", "http://example.com/"},
		{"a*b_c`d", "a*b_c`d"},
		{`a"b`, "a&quot;b"},
		{`a\)b`, "a)b"},
		{`a\`, "a"},
		{"?x=1&y=2", "?x=1&amp;y=2"},
	}
	for _, test := range tests {
		if got := appendAttr(nil, []byte(test.value)); string(got) != test.want {
			t.Errorf("appendAttr(nil, %q) = %q; want %q", test.value, got, test.want)
		}
	}
}

func TestEscapeStringMatchesAppendEscapedByte(t *testing.T) {
	for i := 0; i < 256; i++ {
		c := byte(i)
		want := string(appendEscapedByte(nil, c))
		if got := EscapeString(string([]byte{c})); got != want {
			t.Errorf("EscapeString(%q) = %q; want %q", []byte{c}, got, want)
		}
	}
}
