// Package main seeds the database with schema and demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"stocktrack/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	plu  BIGINT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stocks (
	plu                BIGINT NOT NULL REFERENCES products(plu),
	shop_id            BIGINT NOT NULL,
	on_shelf_quantity  BIGINT NOT NULL DEFAULT 0 CHECK (on_shelf_quantity >= 0),
	in_orders_quantity BIGINT NOT NULL DEFAULT 0 CHECK (in_orders_quantity >= 0),
	PRIMARY KEY (plu, shop_id)
);
`

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatalw("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}
	log.Info("schema ensured")

	seedProducts := []struct {
		plu  int64
		name string
	}{
		{3000, "Apples"},
		{3001, "Oranges"},
		{3002, "Bananas"},
	}

	for _, p := range seedProducts {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (plu, name)
			VALUES ($1, $2)
			ON CONFLICT (plu) DO NOTHING
		`, p.plu, p.name)
		if err != nil {
			log.Warnw("failed to seed product", "plu", p.plu, "error", err)
			continue
		}
	}
	log.Infow("products seeded", "count", len(seedProducts))

	seedStocks := []struct {
		plu, shopID, onShelf, inOrders int64
	}{
		{3000, 1, 10, 2},
		{3000, 2, 5, 0},
		{3001, 1, 25, 7},
	}

	for _, s := range seedStocks {
		_, err := pool.Exec(ctx, `
			INSERT INTO stocks (plu, shop_id, on_shelf_quantity, in_orders_quantity)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (plu, shop_id) DO NOTHING
		`, s.plu, s.shopID, s.onShelf, s.inOrders)
		if err != nil {
			log.Warnw("failed to seed stock record", "plu", s.plu, "shop_id", s.shopID, "error", err)
			continue
		}
	}
	log.Infow("stocks seeded", "count", len(seedStocks))
}
