// Command devenv runs the local development stack through docker-compose.
//
// Build metadata is injected with ldflags, e.g.
//
//	go build -ldflags "-X main.version=1.2.0 -X main.commit=$(git rev-parse --short HEAD)"
package main

import (
	"os"

	"github.com/mmr-tortoise/devenv/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	os.Exit(cli.Execute(os.Args[1:]))
}
