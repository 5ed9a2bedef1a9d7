package main

import (
	"context"
	"log"

	"github.com/modestry/userkeeper/internal/app"
	"github.com/modestry/userkeeper/internal/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("%v", err)
		return
	}

	a := app.NewApp(cfg)
	if err := a.Run(ctx); err != nil {
		log.Printf("%v", err)
		return
	}

}
