package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/noverif/noverif/internal/server"
	"github.com/noverif/noverif/internal/server/config"
)

func main() {
	// Optional; settings come from defaults/JSON/env/flags otherwise.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
