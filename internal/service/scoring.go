package service

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"quizflare/internal/domain"
	"quizflare/internal/logger"
	"quizflare/internal/session"
	"quizflare/internal/util"

	"go.uber.org/zap"
)

// resultMessages is sorted by descending accuracy threshold.
var resultMessages = []struct {
	threshold int
	message   string
}{
	{100, "Perfect score! You've mastered this topic."},
	{80, "Excellent work! You really know your stuff."},
	{60, "Good job! A little more practice and you'll ace it."},
	{40, "Not bad! Review the tricky parts and try again."},
	{20, "Keep going! Every attempt teaches you something."},
	{0, "Don't give up! Study the material and have another go."},
}

// ResultMessage picks the message of the highest threshold not above accuracy.
func ResultMessage(accuracy int) string {
	for _, m := range resultMessages {
		if accuracy >= m.threshold {
			return m.message
		}
	}
	return resultMessages[len(resultMessages)-1].message
}

// ScoringService turns a submitted session into a result and records it on
// the leaderboard.
type ScoringService interface {
	Score(ctx context.Context, sub *session.Submission) (*domain.SessionResult, error)
}

type scoringService struct {
	evaluation  EvaluationService
	leaderboard domain.LeaderboardRepository
}

func NewScoringService(evaluation EvaluationService, leaderboard domain.LeaderboardRepository) ScoringService {
	return &scoringService{evaluation: evaluation, leaderboard: leaderboard}
}

// Score evaluates the sampled questions one after another. Every question
// gets an EvaluationResult; exactly one leaderboard entry is appended.
func (s *scoringService) Score(ctx context.Context, sub *session.Submission) (*domain.SessionResult, error) {
	if sub == nil {
		return nil, domain.NewInvalidInputError("nothing to score")
	}

	answers := make(map[string]domain.AnswerValue, len(sub.Answers))
	for _, a := range sub.Answers {
		answers[a.QuestionID] = a.Answer
	}

	evaluations := make([]domain.EvaluationResult, 0, len(sub.Questions))
	review := make([]domain.AnswerReview, 0, len(sub.Questions))
	var notices []string
	score := 0
	for _, q := range sub.Questions {
		answer, answered := answers[q.ID]
		correct, notice := s.classify(ctx, q, answer, answered)
		if correct {
			score++
		}
		if notice != "" && !slices.Contains(notices, notice) {
			notices = append(notices, notice)
		}
		evaluations = append(evaluations, domain.EvaluationResult{QuestionID: q.ID, IsCorrect: correct})
		review = append(review, reviewOf(q, answer, answered, correct))
	}

	total := len(sub.Questions)
	accuracy := util.Percentage(score, total)
	entry := domain.LeaderboardEntry{
		ID:              util.NewPrefixedID("le"),
		ParticipantName: sub.Participant,
		QuizID:          sub.Quiz.ID,
		QuizTitle:       sub.Quiz.Subject,
		Score:           score,
		TotalQuestions:  total,
		Accuracy:        accuracy,
	}
	if err := s.leaderboard.AppendEntry(ctx, entry); err != nil {
		logger.Get().Error("ScoringService: failed to append leaderboard entry",
			zap.Error(err), zap.String("sessionID", sub.SessionID), zap.String("quizID", sub.Quiz.ID))
		return nil, domain.NewInternalError("failed to record leaderboard entry", err)
	}

	logger.Get().Info("ScoringService: session scored",
		zap.String("sessionID", sub.SessionID),
		zap.String("quizID", sub.Quiz.ID),
		zap.Int("score", score),
		zap.Int("total", total),
		zap.Bool("timedOut", sub.TimedOut))

	return &domain.SessionResult{
		SessionID:   sub.SessionID,
		QuizID:      sub.Quiz.ID,
		Evaluations: evaluations,
		Review:      review,
		Score:       score,
		Total:       total,
		Accuracy:    accuracy,
		Message:     ResultMessage(accuracy),
		Notices:     notices,
		Entry:       entry,
	}, nil
}

func (s *scoringService) classify(ctx context.Context, q domain.Question, answer domain.AnswerValue, answered bool) (bool, string) {
	if !answered || answer.IsBlank() {
		return false, ""
	}

	switch q.Type {
	case domain.QuestionTypeMCQ:
		idx, ok := answer.Index()
		return ok && q.CorrectAnswerIndex != nil && idx == *q.CorrectAnswerIndex, ""

	case domain.QuestionTypeShortAnswer:
		if q.CorrectAnswer == nil || strings.TrimSpace(*q.CorrectAnswer) == "" {
			return false, ""
		}
		text, ok := answer.Text()
		if !ok {
			idx, _ := answer.Index()
			text = strconv.Itoa(idx)
		}
		j := s.evaluation.Evaluate(ctx, text, *q.CorrectAnswer)
		return j.IsCorrect, j.Notice
	}
	return false, ""
}

// reviewOf renders the participant's answer and the answer key as display
// text. MCQ answers show the chosen option rather than its index.
func reviewOf(q domain.Question, answer domain.AnswerValue, answered, correct bool) domain.AnswerReview {
	r := domain.AnswerReview{
		QuestionID: q.ID,
		Type:       q.Type,
		Text:       q.Text,
		Options:    slices.Clone(q.Options),
		AnswerText: domain.NotAnswered,
		IsCorrect:  correct,
	}

	if q.Type == domain.QuestionTypeMCQ {
		if q.CorrectAnswerIndex != nil {
			r.CorrectAnswer = optionText(q.Options, *q.CorrectAnswerIndex)
		}
	} else if q.CorrectAnswer != nil {
		r.CorrectAnswer = *q.CorrectAnswer
	}

	if !answered || answer.IsBlank() {
		return r
	}
	a := answer
	r.Answer = &a
	if idx, ok := answer.Index(); ok {
		if q.Type == domain.QuestionTypeMCQ {
			r.AnswerText = optionText(q.Options, idx)
		} else {
			r.AnswerText = strconv.Itoa(idx)
		}
	} else if text, ok := answer.Text(); ok {
		r.AnswerText = text
	}
	return r
}

func optionText(options []string, idx int) string {
	if idx < 0 || idx >= len(options) {
		return strconv.Itoa(idx)
	}
	return options[idx]
}
