// @title QuizFlare API
// @version 1.0
// @description Quiz authoring, timed quiz sessions, AI-assisted grading and question generation.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quizflare/cmd/api/docs"
	"quizflare/internal/adapter"
	"quizflare/internal/adapter/evaluator"
	"quizflare/internal/adapter/kv"
	"quizflare/internal/adapter/llm"
	"quizflare/internal/adapter/quizgen"
	"quizflare/internal/cache"
	"quizflare/internal/config"
	"quizflare/internal/domain"
	"quizflare/internal/handler"
	"quizflare/internal/logger"
	"quizflare/internal/middleware"
	"quizflare/internal/repository"
	"quizflare/internal/service"
	"quizflare/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

const version = "1.0.0"

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

// openCache prefers Redis and falls back to process memory when Redis is
// not configured or unreachable.
func openCache(ctx context.Context, cfg config.RedisConfig) (domain.Cache, func() error) {
	appLogger := logger.Get()
	client, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		if errors.Is(err, cache.ErrRedisDisabled) {
			appLogger.Info("Redis not configured, using in-memory cache")
		} else {
			appLogger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
		}
		return adapter.NewMemoryCacheAdapter(), func() error { return nil }
	}
	appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Address))
	return adapter.NewRedisCacheAdapter(client), client.Close
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	store, err := kv.Open(cfg.Storage)
	if err != nil {
		appLogger.Fatal("Failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.Close()
	repo := repository.NewKVRepository(store)
	appLogger.Info("Storage initialized", zap.String("driver", cfg.Storage.Driver))

	cacheAdapter, closeCache := openCache(ctx, cfg.Redis)
	defer closeCache()

	// A missing credential leaves both AI gateways nil; the endpoints then
	// report that the key is not configured.
	var (
		answerEvaluator   domain.AnswerEvaluator
		questionGenerator domain.QuestionGenerator
	)
	model, err := llm.NewModel(ctx, cfg.LLM)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		appLogger.Warn("No model credential configured, AI features disabled", zap.String("provider", cfg.LLM.Provider))
	case err != nil:
		appLogger.Fatal("Failed to create model client", zap.Error(err))
	default:
		answerEvaluator = evaluator.NewLLMEvaluator(model)
		questionGenerator = quizgen.NewLLMQuestionGenerator(model)
		appLogger.Info("Model client initialized", zap.String("model", model.Name()))
	}

	evaluationService := service.NewEvaluationService(answerEvaluator, cacheAdapter, cfg.Evaluation)
	scoringService := service.NewScoringService(evaluationService, repo)
	resultCache := service.NewResultCacheService(cacheAdapter, cfg.Session.ResultTTL)
	quizService := service.NewQuizService(repo, repo)
	authoringService := service.NewAuthoringService(repo, repo, questionGenerator)
	sessionService := service.NewSessionService(
		repo,
		scoringService,
		resultCache,
		session.Config{
			MaxQuestions:       cfg.Session.MaxQuestions,
			MCQSeconds:         cfg.Session.MCQSeconds,
			ShortAnswerSeconds: cfg.Session.ShortAnswerSeconds,
		},
		service.Lifetimes{Retention: cfg.Session.ResultTTL, Idle: cfg.Session.IdleTimeout},
	)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app, handler.Handlers{
		Proxy:   handler.NewProxyHandler(evaluationService, authoringService),
		Quiz:    handler.NewQuizHandler(quizService, authoringService),
		Draft:   handler.NewDraftHandler(authoringService),
		Session: handler.NewSessionHandler(sessionService),
		Health:  handler.NewHealthHandler(cacheAdapter, model != nil, version),
	})

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	sessionService.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
