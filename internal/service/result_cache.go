package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizflare/internal/cache"
	"quizflare/internal/domain"
	"quizflare/internal/logger"

	"go.uber.org/zap"
)

// ErrResultNotFound is returned when no scored result is cached for a session.
var ErrResultNotFound = errors.New("session result not found in cache")

// ResultCacheService keeps scored session results for a while after the
// session itself is gone, so the results page can be reloaded.
type ResultCacheService interface {
	Put(ctx context.Context, result *domain.SessionResult) error
	Get(ctx context.Context, sessionID string) (*domain.SessionResult, error)
}

type resultCacheService struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewResultCacheService returns a no-op service when cache is nil.
func NewResultCacheService(c domain.Cache, ttl time.Duration) ResultCacheService {
	if c == nil {
		logger.Get().Warn("ResultCacheService initialized with nil cache. Service will be no-op.")
		return &noopResultCacheService{}
	}
	return &resultCacheService{cache: c, ttl: ttl}
}

func (s *resultCacheService) Put(ctx context.Context, result *domain.SessionResult) error {
	if result == nil {
		return domain.NewInvalidInputError("cannot cache nil result")
	}

	key := cache.SessionResultKey(result.SessionID)
	data, err := json.Marshal(result)
	if err != nil {
		logger.Get().Error("Failed to marshal session result for caching", zap.Error(err), zap.String("sessionID", result.SessionID))
		return domain.NewInternalError("failed to marshal result for caching", err)
	}

	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Error("Failed to cache session result", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to set session result to cache for key %s", key), err)
	}
	logger.Get().Debug("Cached session result", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *resultCacheService) Get(ctx context.Context, sessionID string) (*domain.SessionResult, error) {
	key := cache.SessionResultKey(sessionID)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, ErrResultNotFound
		}
		logger.Get().Error("Failed to get session result from cache", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get session result from cache for key %s", key), err)
	}
	if data == "" {
		return nil, ErrResultNotFound
	}

	var result domain.SessionResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		logger.Get().Error("Failed to unmarshal session result from cache", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal result from cache for key %s", key), err)
	}
	return &result, nil
}

type noopResultCacheService struct{}

func (s *noopResultCacheService) Put(ctx context.Context, result *domain.SessionResult) error {
	return nil
}

func (s *noopResultCacheService) Get(ctx context.Context, sessionID string) (*domain.SessionResult, error) {
	return nil, ErrResultNotFound
}
