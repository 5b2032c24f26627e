package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quizflare/internal/adapter"
	"quizflare/internal/cache"
	"quizflare/internal/config"
	"quizflare/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLocalMatch(t *testing.T) {
	tests := []struct {
		user, correct string
		want          bool
	}{
		{"Dhaka", "dhaka ", true},
		{"  PARIS", "paris", true},
		{"Dhaka", "Chittagong", false},
		{"", "", true},
		{"ঢাকা", "ঢাকা", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LocalMatch(tt.user, tt.correct), "%q vs %q", tt.user, tt.correct)
	}
}

func TestEvaluationService_Evaluate(t *testing.T) {
	cfg := config.EvaluationConfig{Timeout: time.Second, CacheTTL: time.Hour}

	t.Run("remote verdict", func(t *testing.T) {
		evaluator := new(MockAnswerEvaluator)
		evaluator.On("EvaluateAnswer", mock.Anything, "Photosynthesis", "photosynthesis").Return(true, nil).Once()

		svc := NewEvaluationService(evaluator, nil, cfg)
		j := svc.Evaluate(context.Background(), "Photosynthesis", "photosynthesis")

		assert.True(t, j.IsCorrect)
		assert.Empty(t, j.Notice)
		evaluator.AssertExpectations(t)
	})

	t.Run("remote says incorrect even when strings match", func(t *testing.T) {
		evaluator := new(MockAnswerEvaluator)
		evaluator.On("EvaluateAnswer", mock.Anything, "x", "x").Return(false, nil)

		j := NewEvaluationService(evaluator, nil, cfg).Evaluate(context.Background(), "x", "x")
		assert.False(t, j.IsCorrect)
		assert.Empty(t, j.Notice)
	})

	t.Run("model failure falls back with notice", func(t *testing.T) {
		evaluator := new(MockAnswerEvaluator)
		evaluator.On("EvaluateAnswer", mock.Anything, "Dhaka", "dhaka ").
			Return(false, domain.NewLLMServiceError(errors.New("503")))

		j := NewEvaluationService(evaluator, nil, cfg).Evaluate(context.Background(), "Dhaka", "dhaka ")
		assert.True(t, j.IsCorrect)
		assert.Equal(t, "Evaluation failed: Failed to evaluate answer.", j.Notice)
	})

	t.Run("fallback mismatch", func(t *testing.T) {
		evaluator := new(MockAnswerEvaluator)
		evaluator.On("EvaluateAnswer", mock.Anything, "Dhaka", "Chittagong").Return(false, errors.New("boom"))

		j := NewEvaluationService(evaluator, nil, cfg).Evaluate(context.Background(), "Dhaka", "Chittagong")
		assert.False(t, j.IsCorrect)
		assert.NotEmpty(t, j.Notice)
	})

	t.Run("no evaluator configured", func(t *testing.T) {
		j := NewEvaluationService(nil, nil, cfg).Evaluate(context.Background(), "Dhaka", "dhaka")
		assert.True(t, j.IsCorrect)
		assert.Equal(t, "Evaluation failed: API key is not configured on the server.", j.Notice)
	})

	t.Run("hung model call times out", func(t *testing.T) {
		evaluator := new(MockAnswerEvaluator)
		evaluator.On("EvaluateAnswer", mock.Anything, "Dhaka", "dhaka").
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return(false, context.DeadlineExceeded)

		svc := NewEvaluationService(evaluator, nil, config.EvaluationConfig{Timeout: 20 * time.Millisecond})
		start := time.Now()
		j := svc.Evaluate(context.Background(), "Dhaka", "dhaka")

		assert.Less(t, time.Since(start), 2*time.Second)
		assert.True(t, j.IsCorrect)
		assert.Equal(t, "Evaluation failed: The evaluation service took too long to respond.", j.Notice)
	})
}

func TestEvaluationService_JudgeCache(t *testing.T) {
	cfg := config.EvaluationConfig{Timeout: time.Second, CacheTTL: time.Hour}
	key := cache.JudgmentKey("Mitochondria", "mitochondria")

	t.Run("hit skips the model", func(t *testing.T) {
		c := new(MockCache)
		c.On("Get", mock.Anything, key).Return("true", nil)
		evaluator := new(MockAnswerEvaluator)

		verdict, err := NewEvaluationService(evaluator, c, cfg).Judge(context.Background(), "Mitochondria", "mitochondria")
		require.NoError(t, err)
		assert.True(t, verdict)
		evaluator.AssertNotCalled(t, "EvaluateAnswer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("miss fills the cache", func(t *testing.T) {
		c := new(MockCache)
		c.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss)
		c.On("Set", mock.Anything, key, "false", time.Hour).Return(nil).Once()
		evaluator := new(MockAnswerEvaluator)
		evaluator.On("EvaluateAnswer", mock.Anything, "Mitochondria", "mitochondria").Return(false, nil).Once()

		verdict, err := NewEvaluationService(evaluator, c, cfg).Judge(context.Background(), "Mitochondria", "mitochondria")
		require.NoError(t, err)
		assert.False(t, verdict)
		c.AssertExpectations(t)
		evaluator.AssertExpectations(t)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		c := new(MockCache)
		c.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss)
		evaluator := new(MockAnswerEvaluator)
		evaluator.On("EvaluateAnswer", mock.Anything, "Mitochondria", "mitochondria").Return(false, errors.New("down"))

		_, err := NewEvaluationService(evaluator, c, cfg).Judge(context.Background(), "Mitochondria", "mitochondria")
		assert.Error(t, err)
		c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache errors are tolerated", func(t *testing.T) {
		c := new(MockCache)
		c.On("Get", mock.Anything, key).Return("", errors.New("redis down"))
		c.On("Set", mock.Anything, key, "true", time.Hour).Return(errors.New("redis down"))
		evaluator := new(MockAnswerEvaluator)
		evaluator.On("EvaluateAnswer", mock.Anything, "Mitochondria", "mitochondria").Return(true, nil)

		verdict, err := NewEvaluationService(evaluator, c, cfg).Judge(context.Background(), "Mitochondria", "mitochondria")
		require.NoError(t, err)
		assert.True(t, verdict)
	})

	t.Run("malformed cached value is ignored", func(t *testing.T) {
		c := new(MockCache)
		c.On("Get", mock.Anything, key).Return("maybe", nil)
		c.On("Set", mock.Anything, key, "true", time.Hour).Return(nil)
		evaluator := new(MockAnswerEvaluator)
		evaluator.On("EvaluateAnswer", mock.Anything, "Mitochondria", "mitochondria").Return(true, nil).Once()

		verdict, err := NewEvaluationService(evaluator, c, cfg).Judge(context.Background(), "Mitochondria", "mitochondria")
		require.NoError(t, err)
		assert.True(t, verdict)
		evaluator.AssertExpectations(t)
	})
}

func TestEvaluationService_ConcurrentCallsShareOneModelCall(t *testing.T) {
	release := make(chan struct{})
	evaluator := new(MockAnswerEvaluator)
	evaluator.On("EvaluateAnswer", mock.Anything, "Dhaka", "Dhaka").
		Run(func(mock.Arguments) { <-release }).
		Return(true, nil)

	svc := NewEvaluationService(evaluator, adapter.NewMemoryCacheAdapter(), config.EvaluationConfig{Timeout: 5 * time.Second, CacheTTL: time.Minute})

	const callers = 8
	var wg sync.WaitGroup
	results := make([]bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Evaluate(context.Background(), "Dhaka", "Dhaka").IsCorrect
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.True(t, r)
	}
	evaluator.AssertNumberOfCalls(t, "EvaluateAnswer", 1)
}

func TestEvaluationService_JudgeSurvivesCancelledLeader(t *testing.T) {
	cfg := config.EvaluationConfig{Timeout: 5 * time.Second, CacheTTL: time.Hour}
	entered := make(chan struct{})
	release := make(chan struct{})
	var (
		once    sync.Once
		callErr error
	)

	evaluator := new(MockAnswerEvaluator)
	evaluator.On("EvaluateAnswer", mock.Anything, "Golgi", "golgi").
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			once.Do(func() { close(entered) })
			<-release
			callErr = ctx.Err()
		}).
		Return(true, nil)

	svc := NewEvaluationService(evaluator, adapter.NewMemoryCacheAdapter(), cfg)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	verdicts := make([]bool, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		verdicts[0], errs[0] = svc.Judge(leaderCtx, "Golgi", "golgi")
	}()
	<-entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		verdicts[1], errs[1] = svc.Judge(context.Background(), "Golgi", "golgi")
	}()
	time.Sleep(50 * time.Millisecond)

	cancelLeader()
	close(release)
	wg.Wait()

	assert.NoError(t, callErr, "the model call must not inherit the leader's cancellation")
	for i := range verdicts {
		require.NoError(t, errs[i])
		assert.True(t, verdicts[i])
	}
}
