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

// Package examples provides access to the sample documents
// used to test rendering end to end.
//
// Each example is a [txtar] archive in testdata.
// The archive comment describes the example.
// The archive holds the document in input.odie
// and the expected page body in output.html.
// Files whose names start with "files/" are made available to embeds.
// Exactly one trailing newline is removed from output.html,
// so a body that ends in a newline is followed by a blank line.
//
// [txtar]: https://pkg.go.dev/golang.org/x/tools/txtar
package examples

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"testing/fstest"

	"golang.org/x/tools/txtar"
)

// Example is a single rendering example.
type Example struct {
	Name    string
	Comment string
	Input   string
	Output  string
	Files   fstest.MapFS
}

const (
	inputName   = "input.odie"
	outputName  = "output.html"
	filesPrefix = "files/"
)

//go:embed testdata/*.txtar
var testdata embed.FS

// Load returns the examples in name order.
func Load() ([]Example, error) {
	names, err := fs.Glob(testdata, "testdata/*.txtar")
	if err != nil {
		return nil, err
	}
	examples := make([]Example, 0, len(names))
	for _, name := range names {
		data, err := testdata.ReadFile(name)
		if err != nil {
			return nil, err
		}
		ex, err := parse(strings.TrimSuffix(path.Base(name), ".txtar"), data)
		if err != nil {
			return nil, err
		}
		examples = append(examples, ex)
	}
	return examples, nil
}

func parse(name string, data []byte) (Example, error) {
	a := txtar.Parse(data)
	ex := Example{
		Name:    name,
		Comment: strings.TrimSpace(string(a.Comment)),
		Files:   make(fstest.MapFS),
	}
	var hasInput, hasOutput bool
	for _, f := range a.Files {
		switch {
		case f.Name == inputName:
			ex.Input = string(f.Data)
			hasInput = true
		case f.Name == outputName:
			ex.Output = strings.TrimSuffix(string(f.Data), "\n")
			hasOutput = true
		case strings.HasPrefix(f.Name, filesPrefix):
			ex.Files[strings.TrimPrefix(f.Name, filesPrefix)] = &fstest.MapFile{Data: f.Data}
		default:
			return Example{}, fmt.Errorf("example %s: unknown file %q", name, f.Name)
		}
	}
	if !hasInput || !hasOutput {
		return Example{}, fmt.Errorf("example %s: missing %s or %s", name, inputName, outputName)
	}
	return ex, nil
}
