package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"tableflip.dev/jot/pkg/commands"
)

// go install tableflip.dev/jot@latest
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.New().ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("error during command execution: %v", err)
	}
}
