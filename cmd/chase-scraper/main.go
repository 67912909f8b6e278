// Package main is the entry point for the chase-results-scraper application
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/myusername/chase-results-scraper/cmd/chase-scraper/commands"
)

// Version is set during build using ldflags
var (
	version = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	commands.ExecuteContext(ctx, version)
}
