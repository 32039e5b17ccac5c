package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/dailyjournal/internal/logging"
	"github.com/dmitrijs2005/dailyjournal/internal/server"
	"github.com/dmitrijs2005/dailyjournal/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "init failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}
