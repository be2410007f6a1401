package main

import (
	"context"
	"fmt"
	"os"

	"dish-analyzer/internal/config"
	"dish-analyzer/internal/database"
	"dish-analyzer/internal/repository"

	"github.com/rs/zerolog"
)

// Connects with the DB_* settings, creates the catalogue table if needed and
// reports how many reference ingredients it holds.
func main() {
	cfg, err := config.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to read configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Database.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid database configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, zerolog.Nop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Schema check failed: %v\n", err)
		os.Exit(1)
	}

	ingredients, err := repository.NewIngredientRepository(pool, zerolog.Nop()).List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Listing ingredients failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Reference catalogue holds %d ingredients\n", len(ingredients))
}
