package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"legato/internal/config"
	"legato/internal/db"
	productrepo "legato/internal/repository/product"
	tokenrepo "legato/internal/repository/token"
	userrepo "legato/internal/repository/user"
	"legato/internal/seed"
	authsvc "legato/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.Pool)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	auth := authsvc.New(userrepo.NewPostgres(pool, logger), tokenrepo.NewPostgres(pool), cfg.AdminTokenTTL)
	err = seed.Apply(ctx, productrepo.NewPostgres(pool, logger), auth, seed.Options{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
