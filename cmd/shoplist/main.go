package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gsog/shoplist/internal/adapters/driving/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		// cobra has already printed the error
		return 1
	}
	return 0
}
