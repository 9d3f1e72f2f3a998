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

// Package odie converts documents written in the odie markup dialect to HTML.
//
// odie is a small line-oriented dialect.
// Each line is rendered as soon as it is read,
// and the only state carried from one line to the next
// is the set of elements that are still open (a [Style]).
//
// Block markers are recognized at the start of a line:
//
//	```        starts or ends a preformatted block
//	> text     block quote, ended by a blank line
//	* text     list item, the list is ended by a blank line
//	# text     heading (also ## and ###), ended by the end of the line
//	(blank)    paragraph break
//
// Inline markers toggle an element on and off:
//
//	`code`  *emphasis*  _strong_  ~~strike~~
//
// A link is written [text](destination)
// and @path embeds the named file:
// images (names containing .png, .jpg, or .gif) are inlined as data URIs
// and other files are copied into the page as-is.
// A backslash removes the special meaning of the byte that follows it.
package odie

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"zombiezen.com/go/odie/internal/frontmatter"
)

// DefaultCSS is the stylesheet used when a [Document] does not specify one.
const DefaultCSS = "body{margin:60 auto;max-width:750px;line-height:1.6;" +
	"font-family:Open Sans,Arial;color:#444;padding:0 10px;}" +
	"h1,h2,h3{line-height:1.2;padding-top: 14px;}"

// ErrLineTooLong is returned by [Renderer.RenderDocument]
// when a line exceeds [Document.MaxLineLength].
var ErrLineTooLong = errors.New("line too long")

// Document holds the options for rendering a complete HTML page.
// The zero value renders a page with the default stylesheet,
// no header or footer, and unlimited line length.
type Document struct {
	// CSS is inlined into the page's style element.
	// If empty, DefaultCSS is used.
	CSS string
	// Header and Footer are HTML fragments
	// written before and after the rendered body.
	// They are not escaped.
	Header string
	Footer string
	// Title is used for the page's title element
	// if the document does not specify one in its front matter.
	Title string
	// If FrontMatter is true, a leading YAML block delimited by "---" lines
	// is parsed as metadata and is not rendered.
	FrontMatter bool
	// MaxLineLength is the maximum number of bytes in a line,
	// including its terminator.
	// Zero means no limit.
	MaxLineLength int
}

// DocumentInfo describes a rendered document.
type DocumentInfo struct {
	// Title is the title from the document's front matter,
	// or the Title from the Document options if it has none.
	Title string
	// Draft is true if the document's front matter marked it as a draft.
	Draft bool
	// Lines is the number of source lines read, including front matter.
	Lines int
}

// RenderDocument reads a document from src
// and writes it to w as a standalone HTML page.
// Input that starts with a UTF-16 byte order mark is converted to UTF-8.
// Any other input is copied byte for byte,
// so documents in other encodings pass through unchanged.
// Elements still open at the end of the input are closed.
// doc may be nil to use the default options.
func (r *Renderer) RenderDocument(w io.Writer, src io.Reader, doc *Document) (*DocumentInfo, error) {
	if doc == nil {
		doc = new(Document)
	}
	lr := &lineReader{
		r:   bufio.NewReader(transform.NewReader(src, unicode.BOMOverride(transform.Nop))),
		max: doc.MaxLineLength,
	}
	info := &DocumentInfo{Title: doc.Title}

	var pending [][]byte
	if doc.FrontMatter {
		meta, body, err := readFrontMatter(lr)
		if err != nil {
			return nil, fmt.Errorf("render document: %w", err)
		}
		if meta.Title != "" {
			info.Title = meta.Title
		}
		info.Draft = meta.Draft
		pending = body
	}

	bw := bufio.NewWriter(w)
	writeHead(bw, info.Title, doc)
	var buf []byte
	var state Style
	for _, line := range pending {
		buf, state = r.AppendLine(buf[:0], line, state)
		bw.Write(buf)
	}
	for {
		line, err := lr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("render document: line %d: %w", lr.n+1, err)
		}
		buf, state = r.AppendLine(buf[:0], line, state)
		if _, err := bw.Write(buf); err != nil {
			return nil, fmt.Errorf("render document: %w", err)
		}
	}
	bw.Write(AppendClose(buf[:0], state))
	bw.WriteString(doc.Footer)
	bw.WriteString("</body></html>\n")
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	info.Lines = lr.n
	return info, nil
}

func writeHead(bw *bufio.Writer, title string, doc *Document) {
	bw.WriteString(`<html><head><meta charset="utf-8">`)
	if title != "" {
		bw.WriteString("<title>")
		bw.WriteString(EscapeString(title))
		bw.WriteString("</title>")
	}
	bw.WriteString("<style>")
	if doc.CSS != "" {
		bw.WriteString(doc.CSS)
	} else {
		bw.WriteString(DefaultCSS)
	}
	bw.WriteString("</style></head><body>")
	bw.WriteString(doc.Header)
}

// readFrontMatter consumes a leading front matter block.
// If the input does not start with one,
// the lines read while looking for it are returned in body
// so they can be rendered as ordinary content.
func readFrontMatter(lr *lineReader) (meta frontmatter.Meta, body [][]byte, err error) {
	first, err := lr.next()
	if err == io.EOF {
		return meta, nil, nil
	}
	if err != nil {
		return meta, nil, err
	}
	body = append(body, bytes.Clone(first))
	if !frontmatter.IsDelimiter(first) {
		return meta, body, nil
	}
	var block []byte
	for {
		line, err := lr.next()
		if err == io.EOF {
			// Never closed: not front matter after all.
			return meta, body, nil
		}
		if err != nil {
			return meta, nil, err
		}
		if frontmatter.IsDelimiter(line) {
			meta, err = frontmatter.Parse(block)
			return meta, nil, err
		}
		if len(body) == 1 && !frontmatter.MetadataLikely(line) {
			return meta, append(body, bytes.Clone(line)), nil
		}
		body = append(body, bytes.Clone(line))
		block = append(block, line...)
	}
}

// lineReader splits its input into lines that keep their terminators.
type lineReader struct {
	r   *bufio.Reader
	max int
	buf []byte
	n   int // lines returned so far
}

// next returns the next line.
// The returned slice is only valid until the next call.
// At the end of input, next returns io.EOF.
func (lr *lineReader) next() ([]byte, error) {
	lr.buf = lr.buf[:0]
	for {
		chunk, err := lr.r.ReadSlice('\n')
		lr.buf = append(lr.buf, chunk...)
		if lr.max > 0 && len(lr.buf) > lr.max {
			return nil, ErrLineTooLong
		}
		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && len(lr.buf) > 0:
			lr.n++
			return lr.buf, nil
		case err != nil:
			return nil, err
		}
		lr.n++
		return lr.buf, nil
	}
}
