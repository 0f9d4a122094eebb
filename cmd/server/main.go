package main

import (
	"context"
	stdlog "log"
	"os"

	"github.com/dmitrijs2005/fieldsync/internal/buildinfo"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/dmitrijs2005/fieldsync/internal/server"
	"github.com/dmitrijs2005/fieldsync/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.NewZapProduction(cfg.LogLevel)
	if err != nil {
		stdlog.Printf("%v", err)
		return
	}
	defer func() { _ = logger.Sync() }()

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		logger.Error(ctx, "error starting gateway relay", "err", err)
		return
	}

	app.Run(ctx)

}
