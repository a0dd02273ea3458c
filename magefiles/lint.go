//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binLint = "golangci-lint"

// Lint checks formatting, then runs golangci-lint.
func Lint() error {
	mg.Deps(Fmt)
	return sh.RunV(binLint, "run", "./...")
}

// Fmt fails if any Go file outside _examples needs gofmt.
func Fmt() error {
	out, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg", "tests", "magefiles")
	if err != nil {
		return err
	}
	if files := strings.TrimSpace(out); files != "" {
		return fmt.Errorf("gofmt needed:\n%s", files)
	}
	return nil
}
