package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"quizflare/internal/domain"
	"quizflare/internal/logger"
	"quizflare/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionState is a session snapshot plus its result once scored.
type SessionState struct {
	View   session.View          `json:"session"`
	Result *domain.SessionResult `json:"result,omitempty"`
}

// SessionService owns the live quiz sessions of this process.
type SessionService interface {
	// Create opens a session awaiting the participant's name and counts a
	// participation for the quiz.
	Create(ctx context.Context, quizID string) (*SessionState, error)
	Start(ctx context.Context, sessionID, participantName string) (*SessionState, error)
	Get(ctx context.Context, sessionID string) (*SessionState, error)

	// Answer records the answer to the current question. Answering the last
	// question submits the session.
	Answer(ctx context.Context, sessionID string, value domain.AnswerValue) (*SessionState, error)
	Submit(ctx context.Context, sessionID string) (*domain.SessionResult, error)
	Cancel(ctx context.Context, sessionID string) error
	Result(ctx context.Context, sessionID string) (*domain.SessionResult, error)

	// Shutdown cancels every live session without scoring it.
	Shutdown()
}

type liveSession struct {
	*session.Session

	once       sync.Once
	result     *domain.SessionResult
	err        error
	finishedAt time.Time
}

// Lifetimes bounds how long sessions stay in the registry.
type Lifetimes struct {
	// Retention keeps a scored session in memory; the result cache serves
	// it afterwards.
	Retention time.Duration
	// Idle expires a session whose participant never started it.
	Idle time.Duration
}

type sessionService struct {
	quizzes   domain.QuizRepository
	scoring   ScoringService
	results   ResultCacheService
	cfg       session.Config
	lifetimes Lifetimes
	opts      []session.Option

	baseCtx context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*liveSession
}

// NewSessionService builds the registry. Expired sessions are swept
// whenever a new one is created.
func NewSessionService(
	quizzes domain.QuizRepository,
	scoring ScoringService,
	results ResultCacheService,
	cfg session.Config,
	lifetimes Lifetimes,
	opts ...session.Option,
) SessionService {
	ctx, cancel := context.WithCancel(context.Background())
	return &sessionService{
		quizzes:   quizzes,
		scoring:   scoring,
		results:   results,
		cfg:       cfg,
		lifetimes: lifetimes,
		opts:      opts,
		baseCtx:   ctx,
		cancel:    cancel,
		sessions:  make(map[string]*liveSession),
	}
}

func (r *sessionService) Create(ctx context.Context, quizID string) (*SessionState, error) {
	quiz, err := r.quizzes.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	ls := &liveSession{}
	opts := append([]session.Option{
		session.WithConfig(r.cfg),
		session.WithExpireHandler(func(*session.Session) {
			logger.Get().Info("SessionService: time is up, submitting", zap.String("sessionID", ls.ID()))
			if _, err := r.finalize(r.baseCtx, ls); err != nil {
				logger.Get().Error("SessionService: scoring after timeout failed", zap.Error(err), zap.String("sessionID", ls.ID()))
			}
		}),
	}, r.opts...)

	sess, err := session.New(uuid.NewString(), *quiz, opts...)
	if err != nil {
		if errors.Is(err, session.ErrEmptyQuiz) {
			return nil, domain.NewInvalidStateError("this quiz has no questions", err)
		}
		return nil, domain.NewInternalError("failed to create session", err)
	}
	ls.Session = sess

	if err := r.quizzes.IncrementParticipation(ctx, quizID); err != nil {
		logger.Get().Warn("SessionService: failed to count participation", zap.Error(err), zap.String("quizID", quizID))
	}

	r.mu.Lock()
	r.pruneLocked(time.Now())
	r.sessions[sess.ID()] = ls
	r.mu.Unlock()

	logger.Get().Info("SessionService: session created", zap.String("sessionID", sess.ID()), zap.String("quizID", quizID))
	return &SessionState{View: sess.Snapshot()}, nil
}

// pruneLocked drops scored sessions past the retention window and
// never-started sessions past the idle window.
func (r *sessionService) pruneLocked(now time.Time) {
	expired := 0
	for id, ls := range r.sessions {
		switch {
		case !ls.finishedAt.IsZero():
			if now.Sub(ls.finishedAt) > r.lifetimes.Retention {
				delete(r.sessions, id)
			}
		case r.lifetimes.Idle > 0 && now.Sub(ls.CreatedAt()) > r.lifetimes.Idle &&
			ls.Phase() == session.PhaseAwaitingName:
			// A Start racing the sweep sees a terminated session.
			ls.Cancel()
			delete(r.sessions, id)
			expired++
		}
	}
	if expired > 0 {
		logger.Get().Info("SessionService: expired idle sessions", zap.Int("count", expired))
	}
}

func (r *sessionService) lookup(sessionID string) (*liveSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ls, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	return ls, nil
}

func (r *sessionService) state(ls *liveSession) *SessionState {
	st := &SessionState{View: ls.Snapshot()}
	r.mu.Lock()
	st.Result = ls.result
	r.mu.Unlock()
	return st
}

func (r *sessionService) Start(ctx context.Context, sessionID, participantName string) (*SessionState, error) {
	ls, err := r.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if err := ls.Start(participantName); err != nil {
		return nil, sessionError(err)
	}
	if ls.Phase() == session.PhaseSubmitting {
		if _, err := r.finalize(ctx, ls); err != nil {
			return nil, err
		}
	}
	return r.state(ls), nil
}

func (r *sessionService) Get(ctx context.Context, sessionID string) (*SessionState, error) {
	ls, err := r.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return r.state(ls), nil
}

func (r *sessionService) Answer(ctx context.Context, sessionID string, value domain.AnswerValue) (*SessionState, error) {
	ls, err := r.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	last, err := ls.Answer(value)
	if err != nil {
		return nil, sessionError(err)
	}
	if last {
		if _, err := r.finalize(ctx, ls); err != nil {
			return nil, err
		}
	}
	return r.state(ls), nil
}

func (r *sessionService) Submit(ctx context.Context, sessionID string) (*domain.SessionResult, error) {
	ls, err := r.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if ls.Phase() == session.PhaseAwaitingName {
		return nil, domain.NewInvalidStateError("the quiz has not started yet", nil)
	}
	return r.finalize(ctx, ls)
}

// finalize hands the session to scoring exactly once. Concurrent and later
// callers get the same outcome.
func (r *sessionService) finalize(ctx context.Context, ls *liveSession) (*domain.SessionResult, error) {
	ls.once.Do(func() {
		var result *domain.SessionResult
		sub, err := ls.Submit()
		if err == nil {
			result, err = r.scoring.Score(ctx, sub)
		} else {
			err = sessionError(err)
		}

		r.mu.Lock()
		ls.result, ls.err = result, err
		ls.finishedAt = time.Now()
		r.mu.Unlock()

		if err != nil {
			return
		}
		if cacheErr := r.results.Put(ctx, result); cacheErr != nil {
			logger.Get().Warn("SessionService: failed to cache result", zap.Error(cacheErr), zap.String("sessionID", ls.ID()))
		}
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	return ls.result, ls.err
}

func (r *sessionService) Cancel(ctx context.Context, sessionID string) error {
	ls, err := r.lookup(sessionID)
	if err != nil {
		return err
	}
	if !ls.Cancel() {
		return domain.NewInvalidStateError("the session has already finished", nil)
	}

	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	logger.Get().Info("SessionService: session cancelled", zap.String("sessionID", sessionID))
	return nil
}

func (r *sessionService) Result(ctx context.Context, sessionID string) (*domain.SessionResult, error) {
	r.mu.Lock()
	ls, live := r.sessions[sessionID]
	var (
		result *domain.SessionResult
		err    error
		done   bool
	)
	if live {
		result, err, done = ls.result, ls.err, !ls.finishedAt.IsZero()
	}
	r.mu.Unlock()

	if live {
		if !done {
			return nil, domain.NewInvalidStateError("the session has not been submitted yet", nil)
		}
		return result, err
	}

	result, err = r.results.Get(ctx, sessionID)
	if errors.Is(err, ErrResultNotFound) {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	return result, err
}

func (r *sessionService) Shutdown() {
	r.cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	cancelled := 0
	for id, ls := range r.sessions {
		if ls.Cancel() {
			cancelled++
		}
		delete(r.sessions, id)
	}
	logger.Get().Info("SessionService: shut down", zap.Int("cancelledSessions", cancelled))
}

// sessionError maps state machine errors onto domain errors.
func sessionError(err error) error {
	var wrong *session.ErrWrongPhase
	switch {
	case errors.Is(err, session.ErrBlankName):
		return domain.NewError(domain.CodeValidation, "Participant name is required.", err)
	case errors.Is(err, session.ErrAlreadySubmitted):
		return domain.NewInvalidStateError("the session has already finished", err)
	case errors.As(err, &wrong):
		return domain.NewInvalidStateError(wrong.Error(), err)
	}
	return domain.NewInternalError("session operation failed", err)
}
