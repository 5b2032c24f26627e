package main

import (
	"flag"
	"log"
	"os"

	"quizflare/internal/config"
	"quizflare/internal/database"
	"quizflare/internal/logger"

	"go.uber.org/zap"
)

// Usage: migrate [up|down|version]
func main() {
	path := flag.String("db", "", "sqlite database file (defaults to storage.sqlite_path)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	dbPath := cfg.Storage.SQLitePath
	if *path != "" {
		dbPath = *path
	}

	db, err := database.NewSQLiteDB(dbPath)
	if err != nil {
		l.Fatal("Failed to open database", zap.String("path", dbPath), zap.Error(err))
	}
	defer db.Close()

	cmd := "up"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	switch cmd {
	case "up":
		if err := database.RunMigrations(db.DB); err != nil {
			l.Fatal("Failed to run migrations", zap.Error(err))
		}
		l.Info("Migrations applied", zap.String("path", dbPath))
	case "down":
		if err := database.RollbackMigrations(db.DB); err != nil {
			l.Fatal("Failed to roll back migrations", zap.Error(err))
		}
		l.Info("Migrations rolled back", zap.String("path", dbPath))
	case "version":
		version, dirty, err := database.SchemaVersion(db.DB)
		if err != nil {
			l.Fatal("Failed to read schema version", zap.Error(err))
		}
		l.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	default:
		l.Error("Unknown command", zap.String("command", cmd))
		os.Exit(2)
	}
}
