package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quizflare/internal/domain"
	"quizflare/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResultMessage(t *testing.T) {
	assert.Equal(t, resultMessages[0].message, ResultMessage(100))
	assert.Equal(t, resultMessages[1].message, ResultMessage(99))
	assert.Equal(t, resultMessages[1].message, ResultMessage(80))
	assert.Equal(t, resultMessages[2].message, ResultMessage(79))
	assert.Equal(t, resultMessages[4].message, ResultMessage(20))
	assert.Equal(t, resultMessages[5].message, ResultMessage(0))
	assert.Equal(t, resultMessages[5].message, ResultMessage(-1))

	for i := 1; i < len(resultMessages); i++ {
		assert.Greater(t, resultMessages[i-1].threshold, resultMessages[i].threshold, "table must be sorted descending")
	}
}

func geographyQuiz(questions ...domain.Question) domain.Quiz {
	return domain.Quiz{ID: "quiz_geo", CreatorID: "guest_1", Subject: "Geography", Questions: questions}
}

func TestScoringService_Score(t *testing.T) {
	ctx := context.Background()

	t.Run("one correct MCQ and one unanswered short answer", func(t *testing.T) {
		questions := []domain.Question{mcq("q1", 2), shortAnswer("q2", "Dhaka")}
		sub := &session.Submission{
			SessionID:   "s1",
			Quiz:        geographyQuiz(questions...),
			Questions:   questions,
			Answers:     []domain.UserAnswer{{QuestionID: "q1", Answer: domain.IndexAnswer(2)}},
			Participant: "Rahim",
		}

		evaluation := new(MockEvaluationService)
		leaderboard := new(MockLeaderboardRepository)
		leaderboard.On("AppendEntry", ctx, mock.MatchedBy(func(e domain.LeaderboardEntry) bool {
			return e.ParticipantName == "Rahim" && e.QuizID == "quiz_geo" && e.QuizTitle == "Geography" &&
				e.Score == 1 && e.TotalQuestions == 2 && e.Accuracy == 50 && strings.HasPrefix(e.ID, "le_")
		})).Return(nil).Once()

		result, err := NewScoringService(evaluation, leaderboard).Score(ctx, sub)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Score)
		assert.Equal(t, 2, result.Total)
		assert.Equal(t, 50, result.Accuracy)
		assert.Equal(t, ResultMessage(50), result.Message)
		assert.Equal(t, []domain.EvaluationResult{
			{QuestionID: "q1", IsCorrect: true},
			{QuestionID: "q2", IsCorrect: false},
		}, result.Evaluations)
		assert.Empty(t, result.Notices)
		evaluation.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything)
		leaderboard.AssertExpectations(t)

		chosen := domain.IndexAnswer(2)
		assert.Equal(t, []domain.AnswerReview{
			{
				QuestionID:    "q1",
				Type:          domain.QuestionTypeMCQ,
				Text:          "Question q1",
				Options:       []string{"A", "B", "C", "D"},
				Answer:        &chosen,
				AnswerText:    "C",
				CorrectAnswer: "C",
				IsCorrect:     true,
			},
			{
				QuestionID:    "q2",
				Type:          domain.QuestionTypeShortAnswer,
				Text:          "Question q2",
				AnswerText:    domain.NotAnswered,
				CorrectAnswer: "Dhaka",
			},
		}, result.Review)
	})

	t.Run("review shows the chosen option and typed text", func(t *testing.T) {
		questions := []domain.Question{mcq("m1", 0), shortAnswer("s1", "Dhaka"), mcq("m2", 1)}
		sub := &session.Submission{
			Quiz:      geographyQuiz(questions...),
			Questions: questions,
			Answers: []domain.UserAnswer{
				{QuestionID: "m1", Answer: domain.IndexAnswer(3)},
				{QuestionID: "s1", Answer: domain.TextAnswer("ঢাকা")},
				{QuestionID: "m2", Answer: domain.TextAnswer("")},
			},
			Participant: "Nila",
		}
		evaluation := new(MockEvaluationService)
		evaluation.On("Evaluate", ctx, "ঢাকা", "Dhaka").Return(domain.Judgment{IsCorrect: true})
		leaderboard := new(MockLeaderboardRepository)
		leaderboard.On("AppendEntry", ctx, mock.Anything).Return(nil)

		result, err := NewScoringService(evaluation, leaderboard).Score(ctx, sub)
		require.NoError(t, err)
		require.Len(t, result.Review, 3)

		assert.Equal(t, "D", result.Review[0].AnswerText)
		assert.Equal(t, "A", result.Review[0].CorrectAnswer)
		assert.False(t, result.Review[0].IsCorrect)

		assert.Equal(t, "ঢাকা", result.Review[1].AnswerText)
		assert.Equal(t, "Dhaka", result.Review[1].CorrectAnswer)
		assert.True(t, result.Review[1].IsCorrect)
		assert.Empty(t, result.Review[1].Options)

		assert.Equal(t, domain.NotAnswered, result.Review[2].AnswerText)
		assert.Nil(t, result.Review[2].Answer)
		assert.Equal(t, "B", result.Review[2].CorrectAnswer)
	})

	t.Run("MCQ exact match only", func(t *testing.T) {
		questions := []domain.Question{mcq("a", 2), mcq("b", 2), mcq("c", 2), mcq("d", 0)}
		sub := &session.Submission{
			Quiz:      geographyQuiz(questions...),
			Questions: questions,
			Answers: []domain.UserAnswer{
				{QuestionID: "a", Answer: domain.IndexAnswer(2)},
				{QuestionID: "b", Answer: domain.IndexAnswer(1)},
				{QuestionID: "d", Answer: domain.TextAnswer("0")},
			},
			Participant: "Karim",
		}
		leaderboard := new(MockLeaderboardRepository)
		leaderboard.On("AppendEntry", ctx, mock.Anything).Return(nil)

		result, err := NewScoringService(new(MockEvaluationService), leaderboard).Score(ctx, sub)
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false, false, false}, verdicts(result))
		assert.Equal(t, 25, result.Accuracy)
	})

	t.Run("short answers use the evaluation gateway", func(t *testing.T) {
		questions := []domain.Question{shortAnswer("s1", "Dhaka"), shortAnswer("s2", "Padma"), shortAnswer("s3", "")}
		sub := &session.Submission{
			Quiz:      geographyQuiz(questions...),
			Questions: questions,
			Answers: []domain.UserAnswer{
				{QuestionID: "s1", Answer: domain.TextAnswer("dhaka")},
				{QuestionID: "s2", Answer: domain.TextAnswer("Jamuna")},
				{QuestionID: "s3", Answer: domain.TextAnswer("anything")},
			},
			Participant: "Nila",
		}
		evaluation := new(MockEvaluationService)
		evaluation.On("Evaluate", ctx, "dhaka", "Dhaka").Return(domain.Judgment{IsCorrect: true})
		evaluation.On("Evaluate", ctx, "Jamuna", "Padma").
			Return(domain.Judgment{IsCorrect: false, Notice: "Evaluation failed: Failed to evaluate answer."})
		leaderboard := new(MockLeaderboardRepository)
		leaderboard.On("AppendEntry", ctx, mock.Anything).Return(nil)

		result, err := NewScoringService(evaluation, leaderboard).Score(ctx, sub)
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false, false}, verdicts(result))
		assert.Equal(t, 33, result.Accuracy)
		assert.Equal(t, []string{"Evaluation failed: Failed to evaluate answer."}, result.Notices)
		evaluation.AssertNumberOfCalls(t, "Evaluate", 2)
	})

	t.Run("empty answer string is incorrect without a model call", func(t *testing.T) {
		questions := []domain.Question{shortAnswer("s1", "Dhaka")}
		sub := &session.Submission{
			Quiz:        geographyQuiz(questions...),
			Questions:   questions,
			Answers:     []domain.UserAnswer{{QuestionID: "s1", Answer: domain.TextAnswer("")}},
			Participant: "Nila",
		}
		evaluation := new(MockEvaluationService)
		leaderboard := new(MockLeaderboardRepository)
		leaderboard.On("AppendEntry", ctx, mock.Anything).Return(nil)

		result, err := NewScoringService(evaluation, leaderboard).Score(ctx, sub)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, 0, result.Accuracy)
		evaluation.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no questions scores zero", func(t *testing.T) {
		leaderboard := new(MockLeaderboardRepository)
		leaderboard.On("AppendEntry", ctx, mock.MatchedBy(func(e domain.LeaderboardEntry) bool {
			return e.TotalQuestions == 0 && e.Accuracy == 0
		})).Return(nil)

		result, err := NewScoringService(new(MockEvaluationService), leaderboard).Score(ctx, &session.Submission{Quiz: geographyQuiz()})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Accuracy)
		assert.Empty(t, result.Evaluations)
	})

	t.Run("leaderboard failure is reported", func(t *testing.T) {
		questions := []domain.Question{mcq("q1", 0)}
		leaderboard := new(MockLeaderboardRepository)
		leaderboard.On("AppendEntry", ctx, mock.Anything).Return(errors.New("disk full"))

		_, err := NewScoringService(new(MockEvaluationService), leaderboard).Score(ctx, &session.Submission{
			Quiz: geographyQuiz(questions...), Questions: questions, Participant: "Rahim",
		})
		assert.ErrorIs(t, err, &domain.DomainError{Code: domain.CodeInternal})
	})

	t.Run("nil submission", func(t *testing.T) {
		_, err := NewScoringService(new(MockEvaluationService), new(MockLeaderboardRepository)).Score(ctx, nil)
		assert.ErrorIs(t, err, &domain.DomainError{Code: domain.CodeInvalidInput})
	})
}

func verdicts(r *domain.SessionResult) []bool {
	out := make([]bool, 0, len(r.Evaluations))
	for _, e := range r.Evaluations {
		out = append(out, e.IsCorrect)
	}
	return out
}
