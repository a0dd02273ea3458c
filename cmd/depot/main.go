// Package main provides the depot CLI.
package main

import "github.com/mesh-intelligence/depot/internal/cli"

func main() {
	cli.Execute()
}
