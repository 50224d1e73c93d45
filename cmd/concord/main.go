// Package main provides the entry point for the concord CLI tool.
package main

import "github.com/concordhq/concord/cmd/concord/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
