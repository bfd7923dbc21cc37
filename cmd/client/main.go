package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/nutriledger/internal/buildinfo"
	"github.com/dmitrijs2005/nutriledger/internal/client/cli"
	"github.com/dmitrijs2005/nutriledger/internal/client/config"
	"github.com/dmitrijs2005/nutriledger/internal/flagx"
	"github.com/dmitrijs2005/nutriledger/internal/logging"
)

var ownFlags = []string{"-a", "-s", "-t", "-c", "-config", "--config"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	args := flagx.StripArgs(os.Args[1:], ownFlags)
	if len(args) == 0 {
		buildinfo.PrintBuildData(os.Stdout)
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", cli.Describe(err))
		os.Exit(1)
	}
}
