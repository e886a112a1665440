// Package main provides the entry point for the team task API.
package main

import (
	"os"
	_ "time/tzdata"

	"github.com/yukikurage/team-task-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
