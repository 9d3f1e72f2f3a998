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

package site

import (
	"bufio"
	"errors"
	"html/template"
	"io"
	"os"
)

// IndexName is the name of the index page written at the site root.
const IndexName = "index.html"

// indexBanner is written at the top of the index page.
// html/template drops comments, so it is not part of the template.
const indexBanner = "<!-- odie index page - autogenerated -->\n"

// indexData is the value passed to the index page template.
type indexData struct {
	Title   string
	CSS     template.CSS
	Header  template.HTML
	Footer  template.HTML
	Entries []Entry
}

var defaultIndexTemplate = template.Must(template.New(IndexName).Parse(`<html><head><meta charset="utf-8">
<link rel="icon" href="data:">
<meta name="viewport" content="width=device-width">
{{- with .Title}}
<title>{{.}}</title>
{{- end}}
<style>{{.CSS}}</style></head><body>{{.Header}}
<pre style="font:unset">
{{with .Title}}{{.}}

{{end -}}
{{range .Entries}}<a href="{{.Href}}">{{.Name}}</a>
{{end -}}
</pre>
{{.Footer}}</body></html>
`))

func writeIndex(filename string, tmpl *template.Template, data *indexData) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	w := bufio.NewWriter(f)
	io.WriteString(w, indexBanner)
	if err := tmpl.Execute(w, data); err != nil {
		return err
	}
	return w.Flush()
}
