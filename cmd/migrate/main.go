package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/meridiangrc/governance-backend/internal/infrastructure/config"
	"github.com/meridiangrc/governance-backend/internal/infrastructure/database"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file")
		steps      = flag.Int("steps", 1, "number of migrations to roll back (down only)")
	)
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		fmt.Fprintln(os.Stderr, "usage: migrate [flags] up|down|version")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		slog.Error("database URL is not configured, set GOV_DATABASE_URL")
		os.Exit(1)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	switch command {
	case "up":
		if err := database.RunMigrations(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied")
	case "down":
		if err := database.RollbackMigrations(db, *steps); err != nil {
			slog.Error("rollback failed", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations rolled back", "steps", *steps)
	case "version":
		version, dirty, err := database.MigrationVersion(db)
		if err != nil {
			slog.Error("failed to read version", "error", err)
			os.Exit(1)
		}
		slog.Info("schema version", "version", version, "dirty", dirty)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", command)
		os.Exit(2)
	}
}
