//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the depot project using Mage.
//
// Usage:
//
//	mage build            Compile the depot binary to bin/
//	mage install          Run unit tests, then go install depot
//	mage clean            Remove build artifacts
//	mage generate         Regenerate mocks
//	mage fmt              Check gofmt
//	mage lint             Run gofmt check and golangci-lint
//	mage test:all         Run all tests (unit + integration)
//	mage test:unit        Run only unit tests (exclude tests/)
//	mage test:integration Build, then run only integration tests
//	mage test:cover       Run unit tests with a coverage profile
//	mage stats            Print Go line counts per package
package main
