package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/trivision/internal/buildinfo"
	"github.com/dmitrijs2005/trivision/internal/cli"
	"github.com/dmitrijs2005/trivision/internal/config"
	"github.com/dmitrijs2005/trivision/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Run(ctx)

}
