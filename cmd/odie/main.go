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

// odie renders every odie document under a directory to HTML
// and writes an index page linking to them.
//
// Usage:
//
//	odie [flags]
//
// By default, odie builds the current working directory
// using the settings in its odie.toml file, if present.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"
	"zombiezen.com/go/odie/site"
)

func init() {
	version.SetDefaultModule("zombiezen.com/go/odie")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		dir         string
		configPath  string
		jobs        int
		incremental bool
		verbose     bool
		showVersion bool
	)
	flags := pflag.NewFlagSet("odie", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&dir, "dir", "C", ".", "Site root directory")
	flags.IntVarP(&jobs, "jobs", "j", 0, "Number of documents rendered concurrently (0 uses GOMAXPROCS)")
	flags.BoolVar(&incremental, "incremental", false, "Skip documents unchanged since the last build")
	flags.StringVar(&configPath, "config", "", "Configuration file (default <dir>/"+site.ConfigName+")")
	flags.BoolVarP(&verbose, "verbose", "v", isTerminal(stderr), "Report a summary of the build")
	flags.BoolVar(&showVersion, "version", false, "Print the version and exit")
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintln(stderr, "Usage: odie [flags]")
		fmt.Fprintln(stderr, "\nRenders every document under the site root and writes "+site.IndexName+".")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "odie: unexpected argument %q\n", flags.Arg(0))
		flags.Usage()
		return 2
	}
	if showVersion {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return 0
	}

	logger := log.New(stderr, "odie: ", 0)
	var cfg *site.Config
	var err error
	if configPath != "" {
		cfg, err = site.LoadConfig(configPath)
	} else {
		cfg, err = site.LoadRootConfig(dir)
	}
	if err != nil {
		logger.Print(err)
		return 1
	}
	if flags.Changed("jobs") {
		cfg.Jobs = jobs
	}
	if flags.Changed("incremental") {
		cfg.Incremental = incremental
	}

	res, err := site.Build(ctx, dir, cfg, logger)
	if err != nil {
		logger.Print(err)
		return 1
	}
	if verbose {
		logger.Printf("rendered %d, unchanged %d, failed %d; indexed %d",
			res.Rendered, res.Skipped, res.Failed, len(res.Entries))
	}
	return 0
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
