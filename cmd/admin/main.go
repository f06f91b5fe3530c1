package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/scribe/internal/admin"
	"github.com/dmitrijs2005/scribe/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	if err := admin.Run(ctx, cfg, admin.Positional(os.Args[1:]), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

}
