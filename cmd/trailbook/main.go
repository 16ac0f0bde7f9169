// Command trailbook is the admin CLI for the Trailbook API.
package main

import (
	"github.com/pkordes/trailbook/backend/internal/cli"
)

// Version information, set with -ldflags at release time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	cli.SetVersion(Version, Commit, Date)
	cli.Execute()
}
