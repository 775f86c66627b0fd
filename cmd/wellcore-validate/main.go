// SPDX-License-Identifier: MIT

// wellcore-validate is a CLI tool to validate wellcored inputs: well
// directories before they are dropped into a data directory, or a YAML
// configuration file.
//
// Usage:
//
//	wellcore-validate <well-dir> [<well-dir>...]
//	wellcore-validate -data /srv/wells
//	wellcore-validate -f config.yaml
//
// Exit codes:
//   - 0: Everything is valid
//   - 1: At least one well or the config failed validation
//   - 2: Usage error
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/petrolab/wellcore/internal/config"
	"github.com/petrolab/wellcore/internal/version"
	"github.com/petrolab/wellcore/internal/well"
)

func main() {
	var dataDir string
	var configFile string
	var showVersion bool

	flag.StringVar(&dataDir, "data", "", "validate every well directory under this data directory")
	flag.StringVar(&configFile, "file", "", "path to YAML configuration file")
	flag.StringVar(&configFile, "f", "", "path to YAML configuration file (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.Version)
		os.Exit(0)
	}

	if configFile != "" {
		// Load runs strict YAML parsing plus business validation
		if _, err := config.Load(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Configuration error in %s:\n", configFile)
			fmt.Fprintf(os.Stderr, "  %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ %s is valid\n", configFile)
		if dataDir == "" && flag.NArg() == 0 {
			return
		}
	}

	dirs := flag.Args()
	if dataDir != "" {
		found, err := wellDirs(dataDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		dirs = append(dirs, found...)
	}
	if len(dirs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: nothing to validate")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  wellcore-validate <well-dir> [<well-dir>...]")
		fmt.Fprintln(os.Stderr, "  wellcore-validate -data /srv/wells")
		fmt.Fprintln(os.Stderr, "  wellcore-validate -f config.yaml")
		os.Exit(2)
	}

	failed := 0
	for _, dir := range dirs {
		if err := well.Check(dir); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", dir, err)
			failed++
			continue
		}
		fmt.Printf("✓ %s is valid\n", dir)
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d wells failed validation\n", failed, len(dirs))
		os.Exit(1)
	}
}

// wellDirs lists the subdirectories of root that carry well metadata.
func wellDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if _, err := os.Stat(filepath.Join(dir, well.MetaFile)); err == nil {
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}
