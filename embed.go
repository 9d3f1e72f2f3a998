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
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html/atom"
)

// embedStops are the bytes that end an embed reference.
const embedStops = "\n :]*"

// imageMarkers are the substrings that mark an embed reference as an image.
// The test is a substring test, not a suffix test,
// so "photo.png.txt" is embedded as an image.
var imageMarkers = []string{".png", ".jpg", ".gif"}

var errInvalidEmbed = errors.New("invalid embed reference")

// appendEmbed handles the text after an '@' marker.
// It returns the number of bytes of text consumed.
func (r *Renderer) appendEmbed(dst []byte, text []byte, state Style) ([]byte, Style, int) {
	n := scanToken(text, embedStops)
	tok := text[:n]
	if !r.DisableEmbeds {
		name := unescapeToken(tok)
		if data, err := r.readEmbed(name); err == nil {
			if isImageName(name) {
				dst = appendImage(dst, data)
			} else {
				dst = append(dst, data...)
			}
			return dst, state, n
		}
	}
	dst = append(dst, '@')
	dst, state = r.AppendInline(dst, tok, state)
	return dst, state, n
}

// readEmbed reads the named file in full.
// Absolute names and names that escape the filesystem root are rejected.
func (r *Renderer) readEmbed(name string) ([]byte, error) {
	if name == "" || path.IsAbs(name) {
		return nil, errInvalidEmbed
	}
	name = path.Clean(name)
	if !validEmbedName(name) {
		return nil, errInvalidEmbed
	}
	return fs.ReadFile(r.embedFS(), name)
}

// validEmbedName is like [fs.ValidPath] but accepts names
// that are not valid UTF-8, since documents are not required to be UTF-8.
// "." is rejected.
func validEmbedName(name string) bool {
	for {
		elem, rest, more := strings.Cut(name, "/")
		if elem == "" || elem == "." || elem == ".." {
			return false
		}
		if !more {
			return true
		}
		name = rest
	}
}

// Dir is an [fs.FS] for the tree of files rooted at a local directory.
// Unlike [os.DirFS], it opens names that are not valid UTF-8,
// so embed references written in other encodings still resolve.
type Dir string

// Open opens the named file for reading.
func (d Dir) Open(name string) (fs.File, error) {
	if name != "." && !validEmbedName(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if filepath.Separator != '/' && strings.ContainsRune(name, filepath.Separator) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return os.Open(filepath.Join(string(d), filepath.FromSlash(name)))
}

func isImageName(name string) bool {
	for _, m := range imageMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// appendImage appends an img element with data inlined as a data URI.
func appendImage(dst []byte, data []byte) []byte {
	dst = append(dst, '<')
	dst = append(dst, atom.Img.String()...)
	dst = append(dst, ` src="data:image;base64,`...)
	dst = base64.StdEncoding.AppendEncode(dst, data)
	return append(dst, `"/>`...)
}
