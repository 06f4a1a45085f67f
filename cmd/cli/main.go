package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/docassist/internal/buildinfo"
	"github.com/dmitrijs2005/docassist/internal/client/cli"
	"github.com/dmitrijs2005/docassist/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
