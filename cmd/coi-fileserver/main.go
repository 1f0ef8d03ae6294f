package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/avto-dev/go-coi-fileserver/internal/config"
	"github.com/avto-dev/go-coi-fileserver/internal/server"
)

const appName = "coi-fileserver"

func main() {
	var (
		// the only line written to stdout is the startup announcement
		announcer = log.NewWithOptions(os.Stdout, log.Options{Prefix: appName})
		logger    = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: appName})
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuration loading failed", "err", err)
	}

	srv, err := server.New(cfg, announcer, logger)
	if err != nil {
		logger.Fatal("server creation failed", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = srv.Start(ctx); err != nil {
		logger.Fatal("server failed", "err", err) //nolint:gocritic
	}
}
