package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"legato/internal/config"
	"legato/internal/db"
	"legato/internal/migrate"
)

func main() {
	down := flag.Int("down", 0, "roll back this many versions instead of migrating up")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.Pool)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if *down > 0 {
		if err := migrate.Down(ctx, pool, *down); err != nil {
			logger.Fatalf("roll back migrations: %v", err)
		}
		logger.Printf("rolled back %d version(s)", *down)
		return
	}

	version, err := migrate.Apply(ctx, pool)
	if err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	logger.Printf("schema at version %d", version)
}
