package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"legato/internal/config"
	"legato/internal/db"
	"legato/internal/importer"
	"legato/internal/repository/product"
)

func main() {
	var (
		filePath    string
		skipInvalid bool
	)
	flag.StringVar(&filePath, "file", "", "Path to a listing CSV (name,description,price,category,condition,imageUrl,sellerName,sellerEmail,status)")
	flag.BoolVar(&skipInvalid, "skip-invalid", false, "Log and skip rows that fail validation")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.Pool)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, product.NewPostgres(pool, logger), logger).SkipInvalid(skipInvalid)

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d rows: %v", res.Imported, err)
	}

	fmt.Printf("Imported %d listings (%d skipped) in %s\n", res.Imported, res.Skipped, time.Since(start).Truncate(time.Millisecond))
}
