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

// Package site renders a directory tree of odie documents
// and generates an index page that links to them.
package site

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"zombiezen.com/go/odie"
	"zombiezen.com/go/odie/internal/buildcache"
)

// OutputSuffix is appended to a source file's name to form its output file's name.
const OutputSuffix = ".html"

// An Entry is a document that is listed in the index page.
type Entry struct {
	// Source is the slash-separated path of the document
	// relative to the site root.
	Source string
	// Href is the URL of the rendered page relative to the site root,
	// with its path percent-encoded.
	Href string
	// Title is the title from the document's front matter, if any.
	Title string
}

// Name returns the text used for the entry's link.
func (e Entry) Name() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Source
}

// Result summarizes a build.
type Result struct {
	// Rendered is the number of documents written.
	Rendered int
	// Skipped is the number of unchanged documents
	// that were not rendered again.
	Skipped int
	// Failed is the number of documents that could not be rendered.
	Failed int
	// Entries is the list of documents in the index, sorted by Source.
	Entries []Entry
}

type status int8

const (
	pending status = iota
	rendered
	skipped
	failed
)

type outcome struct {
	status status
	title  string
	draft  bool
}

type builder struct {
	root     string
	renderer *odie.Renderer
	doc      *odie.Document
	cache    *buildcache.Cache
	settings string
	logger   *log.Logger
}

// Build renders every source document under root to an HTML file
// next to the source and writes an index page at the root.
// Documents that cannot be read, written, or rendered are logged and skipped;
// they do not cause Build to fail.
// Build returns an error if its configuration or assets cannot be loaded,
// if the index page cannot be written,
// or if ctx is canceled before all documents are rendered.
// A nil cfg is the same as [DefaultConfig].
// A nil logger discards messages.
func Build(ctx context.Context, root string, cfg *Config, logger *log.Logger) (res *Result, err error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("build %s: %w", root, err)
	}
	a, err := loadAssets(root, cfg)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", root, err)
	}
	sources, err := findSources(ctx, root, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", root, err)
	}

	b := &builder{
		root: root,
		renderer: &odie.Renderer{
			Embeds:        odie.Dir(root),
			DisableEmbeds: !cfg.Embeds,
		},
		doc: &odie.Document{
			CSS:           a.css,
			Header:        a.header,
			Footer:        a.footer,
			FrontMatter:   cfg.FrontMatter,
			MaxLineLength: cfg.MaxLineLength,
		},
		settings: a.settings(cfg),
		logger:   logger,
	}
	if cfg.Incremental {
		b.cache, err = buildcache.Open(resolve(root, cfg.Cache))
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", root, err)
		}
		defer func() {
			if closeErr := b.cache.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("build %s: %w", root, closeErr))
			}
		}()
	}

	jobs := cfg.Jobs
	if jobs == 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	outcomes := b.renderAll(ctx, sources, jobs)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build %s: %w", root, err)
	}

	res = new(Result)
	for i, o := range outcomes {
		switch o.status {
		case rendered:
			res.Rendered++
		case skipped:
			res.Skipped++
		case failed:
			res.Failed++
			continue
		}
		if o.draft {
			continue
		}
		res.Entries = append(res.Entries, Entry{
			Source: sources[i],
			Href:   outputHref(sources[i]),
			Title:  o.title,
		})
	}
	sort.Slice(res.Entries, func(i, j int) bool {
		return res.Entries[i].Source < res.Entries[j].Source
	})

	data := &indexData{
		Title:   cfg.Title,
		CSS:     template.CSS(b.css()),
		Header:  template.HTML(a.header),
		Footer:  template.HTML(a.footer),
		Entries: res.Entries,
	}
	if err := writeIndex(filepath.Join(root, IndexName), a.index, data); err != nil {
		return res, fmt.Errorf("build %s: %w", root, err)
	}
	return res, nil
}

// outputHref returns the relative URL of the page rendered from source.
// Bytes such as '#' and '?' are percent-encoded
// so that they stay part of the path.
func outputHref(source string) string {
	return (&url.URL{Path: source + OutputSuffix}).EscapedPath()
}

func (b *builder) css() string {
	if b.doc.CSS == "" {
		return odie.DefaultCSS
	}
	return b.doc.CSS
}

// findSources returns the slash-separated paths of the source documents
// under root in lexical order.
func findSources(ctx context.Context, root string, cfg *Config, logger *log.Logger) ([]string, error) {
	var sources []string
	err := filepath.WalkDir(root, func(fpath string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, relErr := filepath.Rel(root, fpath)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if err != nil {
			if rel == "." {
				return err
			}
			logger.Print(err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if rel == "." {
			return nil
		}
		if cfg.excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && cfg.isSource(d.Name()) {
			sources = append(sources, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}

// renderAll renders sources using a pool of jobs goroutines.
// Each outcome is written by the goroutine that rendered its source.
// Sources not started before ctx is done are left pending.
func (b *builder) renderAll(ctx context.Context, sources []string, jobs int) []outcome {
	outcomes := make([]outcome, len(sources))
	indices := make(chan int)
	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				outcomes[i] = b.renderFile(sources[i])
			}
		}()
	}
feed:
	for i := range sources {
		select {
		case indices <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indices)
	wg.Wait()
	return outcomes
}

// renderFile renders a single source document.
// Failures are logged, not returned.
func (b *builder) renderFile(rel string) outcome {
	src := filepath.Join(b.root, filepath.FromSlash(rel))
	dst := src + OutputSuffix
	info, err := os.Stat(src)
	if err != nil {
		b.logger.Print(err)
		return outcome{status: failed}
	}
	stamp := buildcache.StampOf(info)
	if b.cache != nil {
		rec, ok, err := b.cache.Lookup(rel)
		if err != nil {
			b.logger.Print(err)
		} else if ok && rec.Stamp == stamp && rec.Settings == b.settings && exists(dst) {
			return outcome{status: skipped, title: rec.Title, draft: rec.Draft}
		}
	}

	docInfo, err := b.render(dst, src)
	if err != nil {
		b.logger.Print(err)
		if b.cache != nil {
			if err := b.cache.Delete(rel); err != nil {
				b.logger.Print(err)
			}
		}
		return outcome{status: failed}
	}
	if b.cache != nil {
		err := b.cache.Store(rel, buildcache.Record{
			Stamp:    stamp,
			Settings: b.settings,
			Title:    docInfo.Title,
			Draft:    docInfo.Draft,
		})
		if err != nil {
			b.logger.Print(err)
		}
	}
	return outcome{status: rendered, title: docInfo.Title, draft: docInfo.Draft}
}

func (b *builder) render(dst, src string) (*odie.DocumentInfo, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return nil, err
	}
	info, err := b.renderer.RenderDocument(out, in, b.doc)
	err = errors.Join(err, out.Close())
	if err != nil {
		// Don't leave a partial page behind.
		os.Remove(dst)
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return info, nil
}

func exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// assets are the files shared by every page of a site.
type assets struct {
	css    string
	header string
	footer string
	index  *template.Template
}

func loadAssets(root string, cfg *Config) (*assets, error) {
	a := new(assets)
	var err error
	if a.css, err = readOptional(resolve(root, cfg.Stylesheet)); err != nil {
		return nil, err
	}
	if a.header, err = readOptional(resolve(root, cfg.Header)); err != nil {
		return nil, err
	}
	if a.footer, err = readOptional(resolve(root, cfg.Footer)); err != nil {
		return nil, err
	}
	if cfg.IndexTemplate == "" {
		a.index = defaultIndexTemplate
	} else {
		a.index, err = template.ParseFiles(resolve(root, cfg.IndexTemplate))
		if err != nil {
			return nil, fmt.Errorf("index template: %w", err)
		}
	}
	return a, nil
}

// readOptional returns the contents of the named file,
// or the empty string if name is empty or the file does not exist.
func readOptional(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// settings returns a fingerprint of everything besides the source text
// that affects a rendered page.
func (a *assets) settings(cfg *Config) string {
	h := sha256.New()
	for _, s := range []string{
		a.css,
		a.header,
		a.footer,
		strconv.FormatBool(cfg.FrontMatter),
		strconv.FormatBool(cfg.Embeds),
		strconv.Itoa(cfg.MaxLineLength),
	} {
		io.WriteString(h, strconv.Itoa(len(s)))
		io.WriteString(h, ":")
		io.WriteString(h, s)
	}
	return hex.EncodeToString(h.Sum(nil))
}
