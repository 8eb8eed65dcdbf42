package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.BuildRoot().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
