package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/skillsync/internal/client/config"
	"github.com/dmitrijs2005/skillsync/internal/proxy"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Printf("invalid config: %v", err)
		return
	}

	app, err := proxy.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
