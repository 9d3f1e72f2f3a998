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

// Package normhtml provides functions for comparing generated HTML
// while ignoring insignificant output differences.
package normhtml

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// Normalize strips insignificant output differences from an HTML page
// or fragment.
// Runs of whitespace outside pre elements are collapsed to a single space,
// whitespace next to block elements is removed,
// attributes are sorted by name,
// and character references are written in a canonical form.
func Normalize(b []byte) []byte {
	type htmlAttribute struct {
		key   string
		value string
	}

	tok := html.NewTokenizer(bytes.NewReader(b))
	var output []byte
	last := html.StartTagToken
	var lastTag string
	inPre := false
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return output
		case html.TextToken:
			data := tok.Text()
			afterTag := last == html.EndTagToken || last == html.StartTagToken
			if !inPre {
				data = whitespaceRE.ReplaceAll(data, []byte(" "))
				if afterTag && isBlockTag(lastTag) {
					if last == html.StartTagToken {
						data = bytes.TrimLeftFunc(data, unicode.IsSpace)
					} else {
						data = bytes.TrimSpace(data)
					}
				}
			}
			output = append(output, htmlEscaper.Replace(bytes.Clone(data))...)
		case html.EndTagToken:
			tagBytes, _ := tok.TagName()
			tag := string(tagBytes)
			if tag == atom.Pre.String() {
				inPre = false
			} else if isBlockTag(tag) {
				output = bytes.TrimRightFunc(output, unicode.IsSpace)
			}
			output = append(output, "</"...)
			output = append(output, tag...)
			output = append(output, ">"...)
			lastTag = tag
		case html.StartTagToken, html.SelfClosingTagToken:
			tagBytes, hasAttr := tok.TagName()
			tag := string(tagBytes)
			if tag == atom.Pre.String() {
				inPre = true
			}
			if isBlockTag(tag) {
				output = bytes.TrimRightFunc(output, unicode.IsSpace)
			}
			output = append(output, "<"...)
			output = append(output, tag...)
			if hasAttr {
				var attrs []htmlAttribute
				for {
					k, v, more := tok.TagAttr()
					attrs = append(attrs, htmlAttribute{string(k), string(v)})
					if !more {
						break
					}
				}
				sort.Slice(attrs, func(i, j int) bool {
					return attrs[i].key < attrs[j].key
				})
				for _, attr := range attrs {
					output = append(output, " "...)
					output = append(output, attr.key...)
					if attr.value != "" {
						output = append(output, `="`...)
						output = append(output, html.EscapeString(attr.value)...)
						output = append(output, `"`...)
					}
				}
			}
			output = append(output, ">"...)
			lastTag = tag
		case html.DoctypeToken, html.CommentToken:
			// Dropped.
			continue
		}

		last = tt
		if tt == html.SelfClosingTagToken {
			last = html.EndTagToken
		}
	}
}

// A Link is an anchor element found by [Links].
type Link struct {
	Href string
	Text string
}

// Links returns the anchors in an HTML page in document order.
// Link text has its whitespace collapsed and trimmed.
func Links(b []byte) ([]Link, error) {
	doc, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	var links []Link
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			l := Link{Text: textContent(n)}
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					l.Href = attr.Val
				}
			}
			links = append(links, l)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	return links, nil
}

// Title returns the text of the page's title element,
// or the empty string if it has none.
func Title(b []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	var title string
	var visit func(n *html.Node) bool
	visit = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			title = textContent(n)
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if visit(c) {
				return true
			}
		}
		return false
	}
	visit(doc)
	return title, nil
}

func textContent(n *html.Node) string {
	sb := new(strings.Builder)
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(sb.String(), " "))
}

var blockTags = map[string]struct{}{
	atom.Html.String():       {},
	atom.Head.String():       {},
	atom.Meta.String():       {},
	atom.Title.String():      {},
	atom.Style.String():      {},
	atom.Body.String():       {},
	atom.Header.String():     {},
	atom.Footer.String():     {},
	atom.Nav.String():        {},
	atom.Main.String():       {},
	atom.Div.String():        {},
	atom.P.String():          {},
	atom.Pre.String():        {},
	atom.Blockquote.String(): {},
	atom.Ul.String():         {},
	atom.Li.String():         {},
	atom.H1.String():         {},
	atom.H2.String():         {},
	atom.H3.String():         {},
	atom.Img.String():        {},
}

func isBlockTag(tag string) bool {
	_, ok := blockTags[tag]
	return ok
}
