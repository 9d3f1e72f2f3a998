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
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigName is the name of the configuration file
// that [LoadRootConfig] looks for in a site's root directory.
const ConfigName = "odie.toml"

// Config is the configuration for building a site.
// Relative file names are resolved against the site's root directory.
type Config struct {
	// Title is shown at the top of the index page.
	Title string `toml:"title"`
	// Extensions lists the file name suffixes of source documents.
	// Matching is case-sensitive.
	Extensions []string `toml:"extensions"`
	// Stylesheet is inlined into every page.
	// If the file does not exist, the built-in stylesheet is used.
	Stylesheet string `toml:"stylesheet"`
	// Header and Footer are HTML fragment files
	// placed around every document body.
	// A missing file is treated as empty.
	Header string `toml:"header"`
	Footer string `toml:"footer"`
	// IndexTemplate is an html/template file used for the index page
	// in place of the built-in one.
	IndexTemplate string `toml:"index_template"`
	// FrontMatter enables YAML front matter in source documents.
	FrontMatter bool `toml:"front_matter"`
	// Embeds enables @path references.
	Embeds bool `toml:"embeds"`
	// MaxLineLength limits the length of a source line in bytes.
	// Zero means no limit.
	MaxLineLength int `toml:"max_line_length"`
	// Jobs is the number of documents rendered concurrently.
	// Zero means runtime.GOMAXPROCS(0).
	Jobs int `toml:"jobs"`
	// Incremental skips documents that have not changed since the last build.
	Incremental bool `toml:"incremental"`
	// Cache is the database that records the state of the last build.
	Cache string `toml:"cache"`
	// Exclude lists path.Match patterns.
	// Files and directories whose slash-separated path relative to the root
	// matches any pattern are not visited.
	Exclude []string `toml:"exclude"`
}

// DefaultConfig returns the configuration used
// when a site has no configuration file.
func DefaultConfig() *Config {
	return &Config{
		Extensions: []string{".md"},
		Stylesheet: "custom.css",
		Header:     "header.html",
		Footer:     "footer.html",
		Embeds:     true,
		Cache:      ".odie.db",
	}
}

// LoadConfig reads a TOML configuration file.
// Settings not present in the file keep their default values.
// Unknown keys are an error.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(filename, cfg)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("load config %s: unknown keys %s", filename, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", filename, err)
	}
	return cfg, nil
}

// LoadRootConfig reads the [ConfigName] file in root.
// If the file does not exist, it returns [DefaultConfig].
func LoadRootConfig(root string) (*Config, error) {
	cfg, err := LoadConfig(filepath.Join(root, ConfigName))
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Validate reports the first problem found with the configuration.
func (cfg *Config) Validate() error {
	if len(cfg.Extensions) == 0 {
		return errors.New("no extensions")
	}
	for _, ext := range cfg.Extensions {
		if ext == "" || strings.ContainsAny(ext, `/\`) {
			return fmt.Errorf("invalid extension %q", ext)
		}
	}
	if cfg.Jobs < 0 {
		return fmt.Errorf("jobs = %d", cfg.Jobs)
	}
	if cfg.MaxLineLength < 0 {
		return fmt.Errorf("max_line_length = %d", cfg.MaxLineLength)
	}
	for _, pattern := range cfg.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("exclude %q: %w", pattern, err)
		}
	}
	return nil
}

func (cfg *Config) isSource(name string) bool {
	for _, ext := range cfg.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (cfg *Config) excluded(rel string) bool {
	for _, pattern := range cfg.Exclude {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// resolve returns the file name relative to root
// unless it is already absolute.
func resolve(root, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(root, filepath.FromSlash(name))
}
