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

package buildcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openTemp(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	return c, path
}

func TestLookupMissing(t *testing.T) {
	c, _ := openTemp(t)
	defer c.Close()

	rec, ok, err := c.Lookup("nope.md")
	if err != nil {
		t.Fatal("Lookup:", err)
	}
	if ok {
		t.Errorf("Lookup(%q) = %+v, true; want false", "nope.md", rec)
	}
}

func TestStoreAndReopen(t *testing.T) {
	c, path := openTemp(t)
	want := Record{
		Stamp:    Stamp{Size: 42, ModTime: 1234567890},
		Settings: "abc",
		Title:    "Hello",
		Draft:    true,
	}
	if err := c.Store("a/b.md", want); err != nil {
		t.Fatal("Store:", err)
	}
	if err := c.Close(); err != nil {
		t.Fatal("Close:", err)
	}

	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	got, ok, err := c.Lookup("a/b.md")
	if err != nil {
		t.Fatal("Lookup:", err)
	}
	if !ok {
		t.Fatal("record missing after reopen")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("-want +got:\n%s", diff)
	}
}

func TestDelete(t *testing.T) {
	c, _ := openTemp(t)
	defer c.Close()

	if err := c.Store("x.md", Record{Stamp: Stamp{Size: 1}}); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete("x.md"); err != nil {
		t.Fatal("Delete:", err)
	}
	if _, ok, _ := c.Lookup("x.md"); ok {
		t.Error("record still present after Delete")
	}
}

func TestStampOf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte("hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2023, time.March, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Stamp{Size: 6, ModTime: mtime.UnixNano()}
	if got := StampOf(info); got != want {
		t.Errorf("StampOf(...) = %+v; want %+v", got, want)
	}
}
