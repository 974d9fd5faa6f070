// Package main is the single-binary entrypoint for WalkPal.
package main

import "github.com/walkpal/walkpal/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
