package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"

	"github.com/catait/catait-api/internal/config"
	"github.com/catait/catait-api/internal/database"
)

// Applies the embedded schema migrations.
func main() {
	statusOnly := flag.Bool("status", false, "print migration status instead of applying")
	flag.Parse()

	if err := run(*statusOnly); err != nil {
		log.Fatalf("Migration error: %v", err)
	}
}

func run(statusOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sql.Open("mysql", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	ctx := context.Background()

	if statusOnly {
		return database.MigrationStatus(ctx, db)
	}

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	log.Println("Migrations applied")
	return nil
}
