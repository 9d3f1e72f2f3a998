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
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

var testEmbeds = fstest.MapFS{
	"note.txt":      {Data: []byte("<b>raw</b>")},
	"one.png":       {Data: []byte("M")},
	"two.jpg":       {Data: []byte("Ma")},
	"three.gif":     {Data: []byte("Man")},
	"photo.png.txt": {Data: []byte("Man")},
	"my file.txt":   {Data: []byte("spaced")},
	"dir/inner.txt": {Data: []byte("inner")},
}

func TestEmbed(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		state     Style
		want      string
		wantState Style
	}{
		{
			name: "Verbatim",
			text: "@note.txt rest",
			want: "<b>raw</b> rest",
		},
		{
			name: "OneByteImage",
			text: "@one.png",
			want: `<img src="data:image;base64,TQ=="/>`,
		},
		{
			name: "TwoByteImage",
			text: "@two.jpg",
			want: `<img src="data:image;base64,TWE="/>`,
		},
		{
			name: "ThreeByteImage",
			text: "@three.gif",
			want: `<img src="data:image;base64,TWFu"/>`,
		},
		{
			name: "ImageMarkerAnywhereInName",
			text: "@photo.png.txt",
			want: `<img src="data:image;base64,TWFu"/>`,
		},
		{
			name: "StopsAtColon",
			text: "@note.txt: more",
			want: "<b>raw</b>: more",
		},
		{
			name: "StopsAtBracket",
			text: "@note.txt]",
			want: "<b>raw</b>]",
		},
		{
			name: "StopsAtAsterisk",
			text: "@note.txt*a*",
			want: "<b>raw</b><em>a</em>",
		},
		{
			name: "EscapedSpace",
			text: `@my\ file.txt: ok`,
			want: "spaced: ok",
		},
		{
			name: "Subdirectory",
			text: "@dir/inner.txt",
			want: "inner",
		},
		{
			name: "DotSlash",
			text: "@./dir/inner.txt",
			want: "inner",
		},
		{
			name: "Missing",
			text: "@missing.txt",
			want: "@missing.txt",
		},
		{
			name: "MissingWithMarkup",
			text: "@missing_file_.txt",
			want: "@missing<strong>file</strong>.txt",
		},
		{
			name:      "MissingOpensElement",
			text:      "@missing_file",
			want:      "@missing<strong>file",
			wantState: Strong,
		},
		{
			name: "MissingEntities",
			text: "@a&b",
			want: "@a&amp;b",
		},
		{
			name: "Absolute",
			text: "@/etc/passwd",
			want: "@/etc/passwd",
		},
		{
			name: "ParentDirectory",
			text: "@../secret.txt",
			want: "@../secret.txt",
		},
		{
			name: "Directory",
			text: "@dir",
			want: "@dir",
		},
		{
			name: "Empty",
			text: "@ x",
			want: "@ x",
		},
		{
			name: "AtEnd",
			text: "mail me @",
			want: "mail me @",
		},
		{
			name: "InsideCode",
			text: "`@note.txt`",
			want: "<code>@note.txt</code>",
		},
		{
			name:      "InsidePre",
			text:      "@note.txt",
			state:     Pre,
			want:      "@note.txt",
			wantState: Pre,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := &Renderer{Embeds: testEmbeds}
			got, gotState := r.AppendInline(nil, []byte(test.text), test.state)
			if string(got) != test.want || gotState != test.wantState {
				t.Errorf("AppendInline(nil, %q, %v) = %q, %v; want %q, %v",
					test.text, test.state, got, gotState, test.want, test.wantState)
			}
		})
	}
}

func TestDisableEmbeds(t *testing.T) {
	r := &Renderer{Embeds: testEmbeds, DisableEmbeds: true}
	got, _ := r.AppendInline(nil, []byte("@note.txt and @one.png"), 0)
	const want = "@note.txt and @one.png"
	if string(got) != want {
		t.Errorf("AppendInline(...) = %q; want %q", got, want)
	}
}

func TestAppendImagePadding(t *testing.T) {
	tests := []struct {
		data string
		want string
	}{
		{"", ""},
		{"f", "Zg=="},
		{"fo", "Zm8="},
		{"foo", "Zm9v"},
		{"foob", "Zm9vYg=="},
		{"fooba", "Zm9vYmE="},
		{"foobar", "Zm9vYmFy"},
	}
	for _, test := range tests {
		want := `<img src="data:image;base64,` + test.want + `"/>`
		if got := appendImage(nil, []byte(test.data)); string(got) != want {
			t.Errorf("appendImage(nil, %q) = %q; want %q", test.data, got, want)
		}
	}
}

func TestIsImageName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.png", true},
		{"a.jpg", true},
		{"a.gif", true},
		{"a.png.txt", true},
		{"a.jpeg", false},
		{"a.PNG", false},
		{"png", false},
	}
	for _, test := range tests {
		if got := isImageName(test.name); got != test.want {
			t.Errorf("isImageName(%q) = %t; want %t", test.name, got, test.want)
		}
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"note.txt":        "note",
		"caf\xe9.txt":     "latin1",
		"sub/inner.txt":   "inner",
		"sub/caf\xe9.gif": "GIF\n",
	}
	for name, content := range files {
		filename := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(filename), 0o777); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filename, []byte(content), 0o666); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(filepath.Dir(dir), "outside.txt"), []byte("secret"), 0o666); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		text string
		want string
	}{
		{"@note.txt", "note"},
		{"@caf\xe9.txt", "latin1"},
		{"@sub/inner.txt", "inner"},
		{"@sub/caf\xe9.gif", `<img src="data:image;base64,R0lGCg=="/>`},
		{"@../outside.txt", "@../outside.txt"},
		{"@sub", "@sub"},
		{"@nope\xe9.txt", "@nope\xe9.txt"},
	}
	r := &Renderer{Embeds: Dir(dir)}
	for _, test := range tests {
		got, _ := r.AppendInline(nil, []byte(test.text), 0)
		if string(got) != test.want {
			t.Errorf("AppendInline(nil, %q, 0) = %q; want %q", test.text, got, test.want)
		}
	}
}

func TestDirOpenInvalid(t *testing.T) {
	d := Dir(t.TempDir())
	for _, name := range []string{"", "/abs", "../x", "a//b", "a/./b", "a/"} {
		f, err := d.Open(name)
		if err == nil {
			f.Close()
			t.Errorf("Open(%q) succeeded", name)
			continue
		}
		if !errors.Is(err, fs.ErrInvalid) {
			t.Errorf("Open(%q) = _, %v; want %v", name, err, fs.ErrInvalid)
		}
	}
}
