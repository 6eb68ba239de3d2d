package main

import (
	"context"
	"log"
	"os/signal"
	"selfchat/internal/pkg/app"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.New(ctx); err != nil {
		log.Fatal(err)
	}
}
