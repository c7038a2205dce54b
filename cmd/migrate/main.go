package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Apurer/rocketshoes-cart/internal/platform/migrations"
	platformpostgres "github.com/Apurer/rocketshoes-cart/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := platformpostgres.Connect(ctx, os.Getenv("POSTGRES_DSN"))
	if err != nil {
		log.Fatalf("cannot migrate: %v", err)
	}
	defer func() { _ = platformpostgres.Closer(db)() }()

	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Printf("schema for cart slots, products and stock is up to date")
}
