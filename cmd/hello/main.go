package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/scribe/internal/server"
	"github.com/dmitrijs2005/scribe/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(server.Hello, cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
