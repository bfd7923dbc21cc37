package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/nutriledger/internal/buildinfo"
	"github.com/dmitrijs2005/nutriledger/internal/server"
	"github.com/dmitrijs2005/nutriledger/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
