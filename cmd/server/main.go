package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/passkeeper/server/internal/server"
	"github.com/passkeeper/server/internal/server/config"
)

func main() {

	// Optional .env overlay; absence is fine.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
