package session

import (
	"fmt"
	"math/rand"
	"quizflare/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcq(id string, correct int) domain.Question {
	return domain.Question{
		ID:                 id,
		Type:               domain.QuestionTypeMCQ,
		Text:               "question " + id,
		Options:            []string{"a", "b", "c", "d"},
		CorrectAnswerIndex: &correct,
	}
}

func shortAnswer(id, answer string) domain.Question {
	return domain.Question{
		ID:            id,
		Type:          domain.QuestionTypeShortAnswer,
		Text:          "question " + id,
		CorrectAnswer: &answer,
	}
}

func quizWith(n int) domain.Quiz {
	q := domain.Quiz{ID: "quiz_1", Subject: "Geography"}
	for i := 0; i < n; i++ {
		q.Questions = append(q.Questions, mcq(fmt.Sprintf("q%d", i), 0))
	}
	return q
}

func newManual(t *testing.T, quiz domain.Quiz, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithTickInterval(0), WithRand(rand.New(rand.NewSource(7)))}, opts...)
	s, err := New("s1", quiz, opts...)
	require.NoError(t, err)
	return s
}

func TestNew_EmptyQuiz(t *testing.T) {
	_, err := New("s1", domain.Quiz{ID: "quiz_empty"})
	assert.ErrorIs(t, err, ErrEmptyQuiz)
}

func TestStart_RequiresName(t *testing.T) {
	s := newManual(t, quizWith(3))
	assert.ErrorIs(t, s.Start("   "), ErrBlankName)
	assert.Equal(t, PhaseAwaitingName, s.Phase())

	require.NoError(t, s.Start("  Rahim "))
	assert.Equal(t, PhaseInProgress, s.Phase())
	assert.Equal(t, "Rahim", s.Snapshot().Participant)

	var wrong *ErrWrongPhase
	assert.ErrorAs(t, s.Start("again"), &wrong)
}

func TestStart_SamplesWithoutReplacement(t *testing.T) {
	for _, n := range []int{1, 5, 20, 21, 50} {
		t.Run(fmt.Sprintf("%d questions", n), func(t *testing.T) {
			quiz := quizWith(n)
			s := newManual(t, quiz)
			require.NoError(t, s.Start("p"))

			sub, err := s.Submit()
			require.NoError(t, err)

			want := n
			if want > 20 {
				want = 20
			}
			require.Len(t, sub.Questions, want)

			known := map[string]bool{}
			for _, q := range quiz.Questions {
				known[q.ID] = true
			}
			seen := map[string]bool{}
			for _, q := range sub.Questions {
				assert.True(t, known[q.ID], "sampled question must come from the quiz")
				assert.False(t, seen[q.ID], "duplicate question %s", q.ID)
				seen[q.ID] = true
			}
		})
	}
}

func TestBudget(t *testing.T) {
	cfg := DefaultConfig()
	qs := []domain.Question{mcq("1", 0), mcq("2", 0), mcq("3", 0), shortAnswer("4", "x"), shortAnswer("5", "y")}
	assert.Equal(t, 150, cfg.Budget(qs))
	assert.Equal(t, 0, cfg.Budget(nil))

	quiz := domain.Quiz{ID: "quiz_1", Questions: qs}
	s := newManual(t, quiz)
	require.NoError(t, s.Start("p"))
	assert.Equal(t, 150, s.Snapshot().RemainingSeconds)
}

func TestAnswer_AdvancesAndFinishes(t *testing.T) {
	s := newManual(t, quizWith(2))
	require.NoError(t, s.Start("p"))

	first, pos, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	done, err := s.Answer(domain.IndexAnswer(1))
	require.NoError(t, err)
	assert.False(t, done)

	second, pos, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	assert.NotEqual(t, first.ID, second.ID)

	done, err = s.Answer(domain.IndexAnswer(0))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, PhaseSubmitting, s.Phase())

	_, err = s.Answer(domain.IndexAnswer(0))
	var wrong *ErrWrongPhase
	assert.ErrorAs(t, err, &wrong)

	sub, err := s.Submit()
	require.NoError(t, err)
	require.Len(t, sub.Answers, 2)
	assert.Equal(t, first.ID, sub.Answers[0].QuestionID)
	idx, ok := sub.Answers[0].Answer.Index()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.False(t, sub.TimedOut)
}

func TestTick_TimeoutMovesToSubmitting(t *testing.T) {
	expired := 0
	cfg := Config{MaxQuestions: 20, MCQSeconds: 2, ShortAnswerSeconds: 60}
	s := newManual(t, quizWith(3), WithConfig(cfg), WithExpireHandler(func(*Session) { expired++ }))
	require.NoError(t, s.Start("p"))
	assert.Equal(t, 6, s.Snapshot().RemainingSeconds)

	_, err := s.Answer(domain.IndexAnswer(0))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.False(t, s.Tick())
	}
	assert.True(t, s.Tick())
	assert.False(t, s.Tick())
	assert.Equal(t, 1, expired)

	view := s.Snapshot()
	assert.Equal(t, PhaseSubmitting, view.Phase)
	assert.Equal(t, 0, view.RemainingSeconds)
	assert.True(t, view.TimedOut)
	assert.Nil(t, view.Current)

	sub, err := s.Submit()
	require.NoError(t, err)
	assert.True(t, sub.TimedOut)
	assert.Len(t, sub.Answers, 1, "unanswered questions stay unanswered")
	assert.Len(t, sub.Questions, 3)
}

func TestSubmit_ExactlyOnce(t *testing.T) {
	s := newManual(t, quizWith(2))

	_, err := s.Submit()
	var wrong *ErrWrongPhase
	assert.ErrorAs(t, err, &wrong, "cannot submit before starting")

	require.NoError(t, s.Start("p"))
	sub, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, "s1", sub.SessionID)
	assert.Equal(t, "p", sub.Participant)
	assert.Empty(t, sub.Answers)

	_, err = s.Submit()
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.False(t, s.Cancel())
}

func TestCancel(t *testing.T) {
	s := newManual(t, quizWith(2))
	require.NoError(t, s.Start("p"))
	assert.True(t, s.Cancel())
	assert.Equal(t, PhaseTerminated, s.Phase())
	assert.False(t, s.Tick())

	_, err := s.Submit()
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSnapshot_HidesAnswerKey(t *testing.T) {
	quiz := domain.Quiz{ID: "quiz_1", Subject: "Rivers", Questions: []domain.Question{shortAnswer("q1", "Padma")}}
	s := newManual(t, quiz)
	require.NoError(t, s.Start("p"))

	view := s.Snapshot()
	require.NotNil(t, view.Current)
	assert.Equal(t, "q1", view.Current.ID)
	assert.Equal(t, "Rivers", view.Subject)
	assert.Equal(t, 60, view.RemainingSeconds)
}

func TestBackgroundTicker(t *testing.T) {
	expired := make(chan string, 1)
	cfg := Config{MaxQuestions: 20, MCQSeconds: 3, ShortAnswerSeconds: 60}
	s, err := New("s-live", quizWith(1),
		WithConfig(cfg),
		WithTickInterval(time.Millisecond),
		WithExpireHandler(func(s *Session) { expired <- s.ID() }),
	)
	require.NoError(t, err)
	require.NoError(t, s.Start("p"))

	select {
	case id := <-expired:
		assert.Equal(t, "s-live", id)
	case <-time.After(2 * time.Second):
		t.Fatal("countdown never expired")
	}
	assert.Equal(t, PhaseSubmitting, s.Phase())
}

func TestBackgroundTicker_StoppedBySubmit(t *testing.T) {
	expired := make(chan struct{}, 1)
	s, err := New("s-live", quizWith(1),
		WithTickInterval(5*time.Millisecond),
		WithExpireHandler(func(*Session) { expired <- struct{}{} }),
	)
	require.NoError(t, err)
	require.NoError(t, s.Start("p"))

	before := s.Snapshot().RemainingSeconds
	_, err = s.Submit()
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, s.Snapshot().RemainingSeconds, before)
	select {
	case <-expired:
		t.Fatal("expire handler ran after submit")
	default:
	}
}
