package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quizflare/internal/adapter/kv"
	"quizflare/internal/adapter/llm"
	"quizflare/internal/adapter/quizgen"
	"quizflare/internal/config"
	"quizflare/internal/domain"
	"quizflare/internal/logger"
	"quizflare/internal/repository"
	"quizflare/internal/service"

	"go.uber.org/zap"
)

// Generates a quiz from a local document and saves it under this
// installation's creator identity.
//
//	generate_quiz -subject Biology -file notes.pdf -n 10
func main() {
	subject := flag.String("subject", "", "quiz subject")
	file := flag.String("file", "", "source document: .txt/.md is sent as text, anything else inline")
	n := flag.Int("n", 5, "number of questions to generate")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	flag.Parse()

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

	if strings.TrimSpace(*subject) == "" || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	src, err := readSource(*file)
	if err != nil {
		log.Fatal("Failed to read source document", zap.String("path", *file), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	model, err := llm.NewModel(ctx, cfg.LLM)
	if err != nil {
		log.Fatal("Model is not available", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
	}

	store, err := kv.Open(cfg.Storage)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()
	repo := repository.NewKVRepository(store)

	authoring := service.NewAuthoringService(repo, repo, quizgen.NewLLMQuestionGenerator(model))

	draft := &domain.Draft{Subject: *subject}
	outcome := authoring.GenerateIntoDraft(ctx, draft, src, *n)
	log.Info(outcome.Notice, zap.Int("generated", outcome.Generated))
	if outcome.Generated == 0 {
		os.Exit(1)
	}

	quiz, err := authoring.SaveDraft(ctx, outcome.Draft)
	if err != nil {
		log.Fatal("Failed to save quiz", zap.Error(err))
	}
	log.Info("Quiz saved",
		zap.String("id", quiz.ID),
		zap.String("subject", quiz.Subject),
		zap.Int("questions", len(quiz.Questions)),
	)
}

func readSource(path string) (domain.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Source{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".txt" || ext == ".md" {
		return domain.Source{Text: string(data)}, nil
	}
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return domain.Source{Data: data, MIMEType: mimeType}, nil
}
