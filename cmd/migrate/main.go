// Package main provides a CLI for database schema management.
//
// Usage:
//
//	migrate up
//	migrate list
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"bizdesk/internal/infrastructure/storage/postgres"
	"bizdesk/pkg/config"
	"bizdesk/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "up":
		migrateUp(ctx)
	case "list":
		listMigrations()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bizdesk schema CLI

Usage:
  migrate <command>

Commands:
  up        Apply all embedded migrations
  list      List embedded migrations in apply order
  help      Show this help

Environment Variables:
  DATABASE_URL    PostgreSQL connection string (required for up)`)
}

func getPool(ctx context.Context) *postgres.Pool {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Println("Error: DATABASE_URL environment variable is required")
		os.Exit(1)
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	return pool
}

func migrateUp(ctx context.Context) {
	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	ctx = logger.WithLogger(ctx, log)

	pool := getPool(ctx)
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Printf("Error applying migrations: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Migrations applied.")
}

func listMigrations() {
	names, err := postgres.Migrations()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	for _, name := range names {
		fmt.Println(strings.TrimPrefix(name, "migrations/"))
	}
}
