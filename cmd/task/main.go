// Package main provides the entry point for the task command.
package main

import (
	"os"

	"github.com/ternarybob/task/internal/cli"
	"github.com/ternarybob/task/internal/logger"
)

func main() {
	code := cli.Execute(os.Args[1:], os.Stdout, os.Stderr)
	logger.Stop()
	os.Exit(code)
}
