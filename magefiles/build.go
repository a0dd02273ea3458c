//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "depot"
	binaryDir  = "bin"
	cmdDir     = "./cmd/depot"
)

// Build compiles the depot binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(binaryDir, binaryName)
	if err := sh.RunV(binGo, "build", "-trimpath", "-o", out, cmdDir); err != nil {
		return err
	}
	fmt.Println("built", out)
	return nil
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	if err := os.Remove(coverProfile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Generate regenerates mocks from go:generate directives.
func Generate() error {
	return sh.RunV(binGo, "generate", "./pkg/...")
}

// Install runs go install for the depot binary after the unit tests pass.
func Install() error {
	mg.Deps(Test.Unit)
	return sh.RunV(binGo, "install", "-trimpath", cmdDir)
}
