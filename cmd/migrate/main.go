package main

import (
	"flag"
	"fmt"

	"github.com/pageza/ragcipe/backend/config"
	"github.com/pageza/ragcipe/backend/internal/database"
	"github.com/pageza/ragcipe/backend/internal/logging"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the SQL migrations")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Open(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	if *rollback {
		name, err := database.RollbackLast(db, *migrationsDir)
		if err != nil {
			logging.Fatal().Err(err).Msg("rollback failed")
		}
		fmt.Printf("Successfully rolled back migration: %s\n", name)
		return
	}

	applied, err := database.RunMigrations(db, *migrationsDir)
	if err != nil {
		logging.Fatal().Err(err).Msg("migration failed")
	}
	for _, name := range applied {
		fmt.Printf("Applied migration: %s\n", name)
	}
	fmt.Println("All migrations applied successfully.")
}
