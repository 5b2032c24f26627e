package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"quizflare/internal/cache"
	"quizflare/internal/config"
	"quizflare/internal/domain"
	"quizflare/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrEvaluatorNotConfigured is returned by Judge when no model credential
	// was configured.
	ErrEvaluatorNotConfigured = errors.New("answer evaluator is not configured")

	// ErrEvaluationTimeout marks a remote judgment that exceeded the
	// configured per-call timeout.
	ErrEvaluationTimeout = errors.New("answer evaluation timed out")
)

// EvaluationService decides whether a short answer matches the expected one.
type EvaluationService interface {
	// Evaluate never fails. When the remote judgment is unavailable the
	// answers are compared locally and the Judgment carries a notice.
	Evaluate(ctx context.Context, userAnswer, correctAnswer string) domain.Judgment

	// Judge returns the remote verdict only, without the local fallback.
	Judge(ctx context.Context, userAnswer, correctAnswer string) (bool, error)
}

type evaluationService struct {
	evaluator domain.AnswerEvaluator
	cache     domain.Cache
	cacheTTL  time.Duration
	timeout   time.Duration
	group     singleflight.Group
}

// NewEvaluationService wires the remote evaluator with the judgment cache.
// Both evaluator and cache may be nil.
func NewEvaluationService(evaluator domain.AnswerEvaluator, c domain.Cache, cfg config.EvaluationConfig) EvaluationService {
	if c == nil {
		logger.Get().Info("EvaluationService: judgment cache disabled")
	}
	return &evaluationService{
		evaluator: evaluator,
		cache:     c,
		cacheTTL:  cfg.CacheTTL,
		timeout:   cfg.Timeout,
	}
}

func (s *evaluationService) Evaluate(ctx context.Context, userAnswer, correctAnswer string) domain.Judgment {
	verdict, err := s.Judge(ctx, userAnswer, correctAnswer)
	if err == nil {
		return domain.Judgment{IsCorrect: verdict}
	}

	logger.Get().Warn("EvaluationService: remote judgment failed, comparing locally", zap.Error(err))
	return domain.Judgment{
		IsCorrect: LocalMatch(userAnswer, correctAnswer),
		Notice:    "Evaluation failed: " + failureReason(err),
	}
}

func (s *evaluationService) Judge(ctx context.Context, userAnswer, correctAnswer string) (bool, error) {
	if s.evaluator == nil {
		return false, ErrEvaluatorNotConfigured
	}

	key := cache.JudgmentKey(userAnswer, correctAnswer)
	if verdict, ok := s.lookup(ctx, key); ok {
		return verdict, nil
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// The flight outlives the caller that started it; other callers
		// may be waiting on the same verdict.
		callCtx := context.WithoutCancel(ctx)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, s.timeout)
			defer cancel()
		}

		verdict, err := s.evaluator.EvaluateAnswer(callCtx, userAnswer, correctAnswer)
		if err != nil {
			if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
				return false, fmt.Errorf("%w: %w", ErrEvaluationTimeout, err)
			}
			return false, err
		}
		s.store(callCtx, key, verdict)
		return verdict, nil
	})
	if err != nil {
		return false, err
	}
	if shared {
		logger.Get().Debug("EvaluationService: judgment shared with a concurrent caller", zap.String("key", key))
	}
	return v.(bool), nil
}

func (s *evaluationService) lookup(ctx context.Context, key string) (bool, bool) {
	if s.cache == nil {
		return false, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("EvaluationService: judgment cache read failed", zap.Error(err), zap.String("key", key))
		}
		return false, false
	}
	verdict, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Get().Warn("EvaluationService: ignoring malformed cached judgment", zap.String("key", key), zap.String("value", raw))
		return false, false
	}
	return verdict, true
}

func (s *evaluationService) store(ctx context.Context, key string, verdict bool) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, strconv.FormatBool(verdict), s.cacheTTL); err != nil {
		logger.Get().Warn("EvaluationService: judgment cache write failed", zap.Error(err), zap.String("key", key))
	}
}

// LocalMatch is the fallback comparison: trimmed, case-insensitive equality.
func LocalMatch(userAnswer, correctAnswer string) bool {
	return strings.ToLower(strings.TrimSpace(userAnswer)) == strings.ToLower(strings.TrimSpace(correctAnswer))
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrEvaluatorNotConfigured):
		return "API key is not configured on the server."
	case errors.Is(err, ErrEvaluationTimeout):
		return "The evaluation service took too long to respond."
	default:
		return "Failed to evaluate answer."
	}
}
