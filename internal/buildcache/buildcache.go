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

// Package buildcache records which source documents have been rendered
// so that unchanged documents can be skipped on the next build.
package buildcache

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketDocs = []byte("docs")

// Stamp identifies one version of a source file.
type Stamp struct {
	Size    int64
	ModTime int64 // Unix nanoseconds
}

// StampOf returns the stamp for a file's current metadata.
func StampOf(info os.FileInfo) Stamp {
	return Stamp{
		Size:    info.Size(),
		ModTime: info.ModTime().UnixNano(),
	}
}

// Record is what the cache remembers about a rendered document.
type Record struct {
	Stamp
	// Settings identifies the options the document was rendered with.
	Settings string `json:",omitempty"`
	Title    string `json:",omitempty"`
	Draft    bool   `json:",omitempty"`
}

// Cache is a persistent map from source paths to records.
// It is safe to call from multiple goroutines.
type Cache struct {
	db *bolt.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open build cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDocs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open build cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Lookup returns the record stored for key.
func (c *Cache) Lookup(key string) (rec Record, ok bool, err error) {
	err = c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketDocs).Get([]byte(key))
		if v == nil {
			return nil
		}
		ok = true
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("build cache lookup %s: %w", key, err)
	}
	return rec, ok, nil
}

// Store replaces the record for key.
func (c *Cache) Store(key string, rec Record) error {
	v, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("build cache store %s: %w", key, err)
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDocs).Put([]byte(key), v)
	})
	if err != nil {
		return fmt.Errorf("build cache store %s: %w", key, err)
	}
	return nil
}

// Delete removes the record for key, if any.
func (c *Cache) Delete(key string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDocs).Delete([]byte(key))
	})
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
