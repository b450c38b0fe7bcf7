package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/localmart-users/internal/client/cli"
	"github.com/dmitrijs2005/localmart-users/internal/client/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	cfg := config.LoadConfig(args)
	app := cli.NewApp(cfg)

	if err := app.Run(ctx, args); err != nil {
		if err != cli.ErrUsage {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}
