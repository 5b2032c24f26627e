package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"quizflare/internal/adapter/kv"
	"quizflare/internal/config"
	"quizflare/internal/domain"
	"quizflare/internal/logger"
	"quizflare/internal/repository"
	"quizflare/internal/service"

	"go.uber.org/zap"
)

const defaultSeedFile = "configs/seed_data/quizzes.json"

// Imports quizzes from a JSON array of drafts ({subject, questions}). Each
// draft goes through the same validation as the editor; invalid drafts are
// skipped.
func main() {
	path := flag.String("file", defaultSeedFile, "JSON file with an array of drafts")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Loading drafts from file", zap.String("path", *path))
	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *path), zap.Error(err))
	}

	var drafts []domain.Draft
	if err := json.Unmarshal(raw, &drafts); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}

	store, err := kv.Open(cfg.Storage)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()
	repo := repository.NewKVRepository(store)
	authoring := service.NewAuthoringService(repo, repo, nil)

	imported := 0
	for i := range drafts {
		d := drafts[i]
		d.ID = ""
		quiz, err := authoring.SaveDraft(ctx, &d)
		if err != nil {
			log.Warn("Skipping draft", zap.Int("index", i), zap.String("subject", d.Subject), zap.Error(err))
			continue
		}
		imported++
		log.Info("Imported quiz", zap.String("id", quiz.ID), zap.String("subject", quiz.Subject))
	}
	log.Info("Import completed", zap.Int("imported", imported), zap.Int("total", len(drafts)))
}
