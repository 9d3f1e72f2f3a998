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

// Package frontmatter parses the YAML metadata block
// that may open a document.
//
// A front matter block starts with a line containing only "---",
// is followed by YAML, and ends with another "---" line:
//
//	---
//	title: Release notes
//	draft: true
//	---
package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Delimiter is the line that opens and closes a front matter block.
const Delimiter = "---"

// Meta is the metadata recognized in a front matter block.
// Unknown keys are ignored.
type Meta struct {
	Title string `yaml:"title"`
	Draft bool   `yaml:"draft"`
}

// IsDelimiter reports whether line, ignoring surrounding whitespace,
// is a front matter delimiter.
func IsDelimiter(line []byte) bool {
	return bytes.Equal(bytes.TrimSpace(line), []byte(Delimiter))
}

// MetadataLikely reports whether the first line after an opening delimiter
// looks like YAML metadata rather than document text.
// A document that starts with a "---" line followed by prose
// is not treated as having front matter.
func MetadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' || trimmed[0] == '#' {
		return true
	}
	return bytes.Contains(trimmed, []byte(":"))
}

// Parse decodes the YAML between the delimiters.
func Parse(block []byte) (Meta, error) {
	var m Meta
	if len(bytes.TrimSpace(block)) == 0 {
		return m, nil
	}
	if err := yaml.Unmarshal(block, &m); err != nil {
		return Meta{}, fmt.Errorf("parse front matter: %w", err)
	}
	return m, nil
}
