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
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadRootConfigMissing(t *testing.T) {
	got, err := LoadRootConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), got); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		ConfigName: `title = "My Site"
extensions = [".md", ".odie"]
front_matter = true
embeds = false
jobs = 2
exclude = ["drafts", "*.tmp.md"]
`,
	})
	got, err := LoadRootConfig(root)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Title = "My Site"
	want.Extensions = []string{".md", ".odie"}
	want.FrontMatter = true
	want.Embeds = false
	want.Jobs = 2
	want.Exclude = []string{"drafts", "*.tmp.md"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"UnknownKey", "titel = \"x\"\n", "unknown keys titel"},
		{"Malformed", "title = \n", ""},
		{"WrongType", "jobs = \"many\"\n", ""},
		{"NoExtensions", "extensions = []\n", "no extensions"},
		{"NegativeJobs", "jobs = -1\n", "jobs"},
		{"BadPattern", "exclude = [\"[\"]\n", "exclude"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			filename := filepath.Join(t.TempDir(), ConfigName)
			if err := os.WriteFile(filename, []byte(test.content), 0o666); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(filename)
			if err == nil {
				t.Fatal("LoadConfig did not return an error")
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("LoadConfig error = %q; want to contain %q", err, test.wantErr)
			}
		})
	}
}

func TestLoadConfigNotExist(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadConfig(...) = _, %v; want %v", err, fs.ErrNotExist)
	}
}

func TestIsSource(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		want bool
	}{
		{"a.md", true},
		{"a.b.md", true},
		{"a.md.html", false},
		{"a.MD", false},
		{"md", false},
		{"a.mdx", false},
	}
	for _, test := range tests {
		if got := cfg.isSource(test.name); got != test.want {
			t.Errorf("isSource(%q) = %t; want %t", test.name, got, test.want)
		}
	}
}
