// Package session runs one participant's attempt at a quiz: name entry,
// question sampling, the countdown, answer collection and the hand-off of
// the finished attempt to scoring.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"quizflare/internal/domain"
	"strings"
	"sync"
	"time"
)

var (
	ErrEmptyQuiz        = errors.New("session: quiz has no questions")
	ErrBlankName        = errors.New("session: participant name is required")
	ErrAlreadySubmitted = errors.New("session: already terminated")
)

// ErrWrongPhase is returned when an operation is not allowed in the
// session's current phase.
type ErrWrongPhase struct {
	Op    string
	Phase Phase
}

func (e *ErrWrongPhase) Error() string {
	return fmt.Sprintf("session: %s not allowed while %s", e.Op, e.Phase)
}

type Phase int

const (
	PhaseAwaitingName Phase = iota
	PhaseInProgress
	PhaseSubmitting
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingName:
		return "awaiting_name"
	case PhaseInProgress:
		return "in_progress"
	case PhaseSubmitting:
		return "submitting"
	case PhaseTerminated:
		return "terminated"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Config sets the sample size and the per-type time allowance in ticks
// (seconds in production).
type Config struct {
	MaxQuestions       int
	MCQSeconds         int
	ShortAnswerSeconds int
}

func DefaultConfig() Config {
	return Config{MaxQuestions: 20, MCQSeconds: 10, ShortAnswerSeconds: 60}
}

// Budget is the total time allowance for a set of questions.
func (c Config) Budget(questions []domain.Question) int {
	total := 0
	for _, q := range questions {
		if q.Type == domain.QuestionTypeMCQ {
			total += c.MCQSeconds
		} else {
			total += c.ShortAnswerSeconds
		}
	}
	return total
}

// Submission is handed to scoring exactly once per session.
type Submission struct {
	SessionID   string
	Quiz        domain.Quiz
	Questions   []domain.Question
	Answers     []domain.UserAnswer
	Participant string
	TimedOut    bool
}

type Option func(*Session)

func WithConfig(cfg Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rnd = r }
}

// WithTickInterval sets the countdown period. Zero disables the background
// ticker; the caller then drives the countdown with Tick.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) { s.tickInterval = d }
}

// WithExpireHandler registers a callback run once when the countdown
// reaches zero. It runs on the ticker goroutine without the session lock.
func WithExpireHandler(fn func(*Session)) Option {
	return func(s *Session) { s.onExpire = fn }
}

// Session is safe for concurrent use.
type Session struct {
	id           string
	quiz         domain.Quiz
	cfg          Config
	rnd          *rand.Rand
	tickInterval time.Duration
	onExpire     func(*Session)
	createdAt    time.Time

	mu          sync.Mutex
	phase       Phase
	participant string
	questions   []domain.Question
	answers     []domain.UserAnswer
	position    int
	remaining   int
	timedOut    bool

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a session awaiting the participant's name.
func New(id string, quiz domain.Quiz, opts ...Option) (*Session, error) {
	if len(quiz.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	s := &Session{
		id:           id,
		quiz:         quiz,
		cfg:          DefaultConfig(),
		tickInterval: time.Second,
		createdAt:    time.Now(),
		phase:        PhaseAwaitingName,
		stop:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) QuizID() string { return s.quiz.ID }

func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Start records the participant, samples the questions and starts the
// countdown.
func (s *Session) Start(name string) error {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseAwaitingName {
		return &ErrWrongPhase{Op: "start", Phase: s.phase}
	}
	if name == "" {
		return ErrBlankName
	}

	n := len(s.quiz.Questions)
	if s.cfg.MaxQuestions > 0 && n > s.cfg.MaxQuestions {
		n = s.cfg.MaxQuestions
	}
	order := s.rnd.Perm(len(s.quiz.Questions))[:n]
	s.questions = make([]domain.Question, 0, n)
	for _, idx := range order {
		s.questions = append(s.questions, s.quiz.Questions[idx].Clone())
	}

	s.participant = name
	s.remaining = s.cfg.Budget(s.questions)
	s.phase = PhaseInProgress

	if s.remaining <= 0 {
		// nothing to count down
		s.phase = PhaseSubmitting
		s.stopTimer()
		return nil
	}
	if s.tickInterval > 0 {
		go s.run(s.stop)
	}
	return nil
}

func (s *Session) run(stop <-chan struct{}) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if s.Tick() {
				return
			}
		}
	}
}

// Tick advances the countdown by one unit. It reports true when this tick
// exhausted the time and moved the session to Submitting.
func (s *Session) Tick() bool {
	s.mu.Lock()
	if s.phase != PhaseInProgress {
		s.mu.Unlock()
		return false
	}
	s.remaining--
	expired := s.remaining <= 0
	if expired {
		s.remaining = 0
		s.timedOut = true
		s.phase = PhaseSubmitting
		s.stopTimer()
	}
	s.mu.Unlock()

	if expired && s.onExpire != nil {
		s.onExpire(s)
	}
	return expired
}

func (s *Session) stopTimer() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Current returns the question awaiting an answer and its position.
func (s *Session) Current() (domain.Question, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseInProgress {
		return domain.Question{}, 0, &ErrWrongPhase{Op: "current", Phase: s.phase}
	}
	return s.questions[s.position].Clone(), s.position, nil
}

// Answer records the answer to the current question, replacing an earlier
// one, and advances. It reports true when that was the last question.
func (s *Session) Answer(value domain.AnswerValue) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseInProgress {
		return false, &ErrWrongPhase{Op: "answer", Phase: s.phase}
	}

	qid := s.questions[s.position].ID
	replaced := false
	for i := range s.answers {
		if s.answers[i].QuestionID == qid {
			s.answers[i].Answer = value
			replaced = true
			break
		}
	}
	if !replaced {
		s.answers = append(s.answers, domain.UserAnswer{QuestionID: qid, Answer: value})
	}

	s.position++
	if s.position >= len(s.questions) {
		s.phase = PhaseSubmitting
		s.stopTimer()
		return true, nil
	}
	return false, nil
}

// Submit ends the session and returns the hand-off for scoring. Only the
// first call succeeds.
func (s *Session) Submit() (*Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseTerminated:
		return nil, ErrAlreadySubmitted
	case PhaseAwaitingName:
		return nil, &ErrWrongPhase{Op: "submit", Phase: s.phase}
	}

	s.phase = PhaseTerminated
	s.stopTimer()

	sub := &Submission{
		SessionID:   s.id,
		Quiz:        s.quiz,
		Questions:   make([]domain.Question, len(s.questions)),
		Answers:     append([]domain.UserAnswer(nil), s.answers...),
		Participant: s.participant,
		TimedOut:    s.timedOut,
	}
	copy(sub.Questions, s.questions)
	return sub, nil
}

// Cancel abandons the session without a hand-off. It reports whether the
// session was still live.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseTerminated {
		return false
	}
	s.phase = PhaseTerminated
	s.stopTimer()
	return true
}

// PublicQuestion is a question without its answer key.
type PublicQuestion struct {
	ID      string              `json:"id"`
	Type    domain.QuestionType `json:"type"`
	Text    string              `json:"text"`
	Options []string            `json:"options,omitempty"`
}

// View is a point-in-time copy of the session state.
type View struct {
	ID               string          `json:"id"`
	QuizID           string          `json:"quizId"`
	Subject          string          `json:"subject"`
	Phase            Phase           `json:"phase"`
	Participant      string          `json:"participantName,omitempty"`
	Position         int             `json:"position"`
	TotalQuestions   int             `json:"totalQuestions"`
	Answered         int             `json:"answered"`
	RemainingSeconds int             `json:"remainingSeconds"`
	TimedOut         bool            `json:"timedOut"`
	Current          *PublicQuestion `json:"currentQuestion,omitempty"`
}

func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:               s.id,
		QuizID:           s.quiz.ID,
		Subject:          s.quiz.Subject,
		Phase:            s.phase,
		Participant:      s.participant,
		Position:         s.position,
		TotalQuestions:   len(s.questions),
		Answered:         len(s.answers),
		RemainingSeconds: s.remaining,
		TimedOut:         s.timedOut,
	}
	if s.phase == PhaseInProgress {
		q := s.questions[s.position]
		v.Current = &PublicQuestion{
			ID:      q.ID,
			Type:    q.Type,
			Text:    q.Text,
			Options: append([]string(nil), q.Options...),
		}
	}
	return v
}
