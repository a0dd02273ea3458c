//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// lineCount tallies production and test lines for one package directory.
type lineCount struct {
	prod, test int
}

// Stats prints Go line counts per package directory.
func Stats() error {
	counts := map[string]*lineCount{}

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			switch path {
			case "vendor", ".git", binaryDir, "magefiles":
				return filepath.SkipDir
			}
			if strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return nil
		}
		dir := filepath.Dir(path)
		c, ok := counts[dir]
		if !ok {
			c = &lineCount{}
			counts[dir] = c
		}
		if strings.HasSuffix(path, "_test.go") {
			c.test += n
		} else {
			c.prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(counts))
	for dir := range counts {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var total lineCount
	rows := make([][]string, 0, len(dirs)+1)
	for _, dir := range dirs {
		c := counts[dir]
		total.prod += c.prod
		total.test += c.test
		rows = append(rows, []string{dir, strconv.Itoa(c.prod), strconv.Itoa(c.test)})
	}
	rows = append(rows, []string{"total", strconv.Itoa(total.prod), strconv.Itoa(total.test)})

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Package", "Production", "Tests")
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render stats: %w", err)
	}
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
