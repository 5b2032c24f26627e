package domain

import "context"

// AnswerEvaluator judges whether a free-text answer matches the expected one.
// Implementations call a remote model and may fail.
type AnswerEvaluator interface {
	EvaluateAnswer(ctx context.Context, userAnswer, correctAnswer string) (bool, error)
}

// Judgment is the outcome of evaluating one short answer. Notice is set when
// the remote judgment failed and a local comparison was used instead.
type Judgment struct {
	IsCorrect bool
	Notice    string
}
