package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizflare/internal/domain"
	"quizflare/internal/handler"
	"quizflare/internal/middleware"
	"quizflare/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockEvaluationService struct {
	EvaluateFunc func(ctx context.Context, u, c string) domain.Judgment
	JudgeFunc    func(ctx context.Context, u, c string) (bool, error)
}

func (m *MockEvaluationService) Evaluate(ctx context.Context, u, c string) domain.Judgment {
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, u, c)
	}
	panic("MockEvaluationService.EvaluateFunc not implemented")
}

func (m *MockEvaluationService) Judge(ctx context.Context, u, c string) (bool, error) {
	if m.JudgeFunc != nil {
		return m.JudgeFunc(ctx, u, c)
	}
	panic("MockEvaluationService.JudgeFunc not implemented")
}

type MockQuizService struct {
	ListQuizzesFunc  func(ctx context.Context, f service.QuizFilter) ([]domain.Quiz, error)
	GetQuizFunc      func(ctx context.Context, id string) (*domain.Quiz, error)
	ListSubjectsFunc func(ctx context.Context) ([]string, error)
	LeaderboardFunc  func(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

func (m *MockQuizService) ListQuizzes(ctx context.Context, f service.QuizFilter) ([]domain.Quiz, error) {
	if m.ListQuizzesFunc != nil {
		return m.ListQuizzesFunc(ctx, f)
	}
	panic("MockQuizService.ListQuizzesFunc not implemented")
}

func (m *MockQuizService) GetQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, id)
	}
	panic("MockQuizService.GetQuizFunc not implemented")
}

func (m *MockQuizService) ListSubjects(ctx context.Context) ([]string, error) {
	if m.ListSubjectsFunc != nil {
		return m.ListSubjectsFunc(ctx)
	}
	panic("MockQuizService.ListSubjectsFunc not implemented")
}

func (m *MockQuizService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(ctx)
	}
	panic("MockQuizService.LeaderboardFunc not implemented")
}

type MockAuthoringService struct {
	IdentityFunc          func(ctx context.Context) (string, error)
	LoadDraftFunc         func(ctx context.Context, quizID string) (*domain.Draft, error)
	ApplyOperationFunc    func(d *domain.Draft, op service.DraftOperation) error
	SaveDraftFunc         func(ctx context.Context, d *domain.Draft) (*domain.Quiz, error)
	DeleteQuizFunc        func(ctx context.Context, quizID string) error
	GenerateQuestionsFunc func(ctx context.Context, src domain.Source, n int) ([]domain.QuestionDraft, error)
	GenerateIntoDraftFunc func(ctx context.Context, d *domain.Draft, src domain.Source, n int) service.GenerationOutcome
}

func (m *MockAuthoringService) Identity(ctx context.Context) (string, error) {
	if m.IdentityFunc != nil {
		return m.IdentityFunc(ctx)
	}
	panic("MockAuthoringService.IdentityFunc not implemented")
}

func (m *MockAuthoringService) LoadDraft(ctx context.Context, quizID string) (*domain.Draft, error) {
	if m.LoadDraftFunc != nil {
		return m.LoadDraftFunc(ctx, quizID)
	}
	panic("MockAuthoringService.LoadDraftFunc not implemented")
}

func (m *MockAuthoringService) ApplyOperation(d *domain.Draft, op service.DraftOperation) error {
	if m.ApplyOperationFunc != nil {
		return m.ApplyOperationFunc(d, op)
	}
	panic("MockAuthoringService.ApplyOperationFunc not implemented")
}

func (m *MockAuthoringService) SaveDraft(ctx context.Context, d *domain.Draft) (*domain.Quiz, error) {
	if m.SaveDraftFunc != nil {
		return m.SaveDraftFunc(ctx, d)
	}
	panic("MockAuthoringService.SaveDraftFunc not implemented")
}

func (m *MockAuthoringService) DeleteQuiz(ctx context.Context, quizID string) error {
	if m.DeleteQuizFunc != nil {
		return m.DeleteQuizFunc(ctx, quizID)
	}
	panic("MockAuthoringService.DeleteQuizFunc not implemented")
}

func (m *MockAuthoringService) GenerateQuestions(ctx context.Context, src domain.Source, n int) ([]domain.QuestionDraft, error) {
	if m.GenerateQuestionsFunc != nil {
		return m.GenerateQuestionsFunc(ctx, src, n)
	}
	panic("MockAuthoringService.GenerateQuestionsFunc not implemented")
}

func (m *MockAuthoringService) GenerateIntoDraft(ctx context.Context, d *domain.Draft, src domain.Source, n int) service.GenerationOutcome {
	if m.GenerateIntoDraftFunc != nil {
		return m.GenerateIntoDraftFunc(ctx, d, src, n)
	}
	panic("MockAuthoringService.GenerateIntoDraftFunc not implemented")
}

type MockSessionService struct {
	CreateFunc func(ctx context.Context, quizID string) (*service.SessionState, error)
	StartFunc  func(ctx context.Context, id, name string) (*service.SessionState, error)
	GetFunc    func(ctx context.Context, id string) (*service.SessionState, error)
	AnswerFunc func(ctx context.Context, id string, v domain.AnswerValue) (*service.SessionState, error)
	SubmitFunc func(ctx context.Context, id string) (*domain.SessionResult, error)
	CancelFunc func(ctx context.Context, id string) error
	ResultFunc func(ctx context.Context, id string) (*domain.SessionResult, error)
}

func (m *MockSessionService) Create(ctx context.Context, quizID string) (*service.SessionState, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, quizID)
	}
	panic("MockSessionService.CreateFunc not implemented")
}

func (m *MockSessionService) Start(ctx context.Context, id, name string) (*service.SessionState, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, id, name)
	}
	panic("MockSessionService.StartFunc not implemented")
}

func (m *MockSessionService) Get(ctx context.Context, id string) (*service.SessionState, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	panic("MockSessionService.GetFunc not implemented")
}

func (m *MockSessionService) Answer(ctx context.Context, id string, v domain.AnswerValue) (*service.SessionState, error) {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, id, v)
	}
	panic("MockSessionService.AnswerFunc not implemented")
}

func (m *MockSessionService) Submit(ctx context.Context, id string) (*domain.SessionResult, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, id)
	}
	panic("MockSessionService.SubmitFunc not implemented")
}

func (m *MockSessionService) Cancel(ctx context.Context, id string) error {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, id)
	}
	panic("MockSessionService.CancelFunc not implemented")
}

func (m *MockSessionService) Result(ctx context.Context, id string) (*domain.SessionResult, error) {
	if m.ResultFunc != nil {
		return m.ResultFunc(ctx, id)
	}
	panic("MockSessionService.ResultFunc not implemented")
}

func (m *MockSessionService) Shutdown() {}

type MockCache struct {
	PingErr error
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) { return "", domain.ErrCacheMiss }
func (m *MockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return nil
}
func (m *MockCache) Delete(ctx context.Context, key string) error { return nil }
func (m *MockCache) Ping(ctx context.Context) error { return m.PingErr }

// --- Test Helpers ---

type testServices struct {
	evaluation *MockEvaluationService
	quizzes    *MockQuizService
	authoring  *MockAuthoringService
	sessions   *MockSessionService
	cache      *MockCache
}

func newTestApp(t *testing.T) (*fiber.App, *testServices) {
	t.Helper()
	s := &testServices{
		evaluation: &MockEvaluationService{},
		quizzes:    &MockQuizService{},
		authoring:  &MockAuthoringService{},
		sessions:   &MockSessionService{},
		cache:      &MockCache{},
	}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app, handler.Handlers{
		Proxy:   handler.NewProxyHandler(s.evaluation, s.authoring),
		Quiz:    handler.NewQuizHandler(s.quizzes, s.authoring),
		Draft:   handler.NewDraftHandler(s.authoring),
		Session: handler.NewSessionHandler(s.sessions),
		Health:  handler.NewHealthHandler(s.cache, true, "test"),
	})
	return app, s
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
