package main

import (
	"context"
	"log"

	"github.com/bmgraphics/fleetops/internal/server"
	"github.com/bmgraphics/fleetops/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("fleetops: %v", err)
	}

	app.Run(context.Background())
}
