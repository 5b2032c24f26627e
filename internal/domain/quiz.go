package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// QuestionType is the wire value of a question kind.
type QuestionType string

const (
	QuestionTypeMCQ         QuestionType = "MCQ"
	QuestionTypeShortAnswer QuestionType = "Short Answer"
)

func (t QuestionType) Valid() bool {
	return t == QuestionTypeMCQ || t == QuestionTypeShortAnswer
}

// Question is one quiz item. MCQ questions carry Options and
// CorrectAnswerIndex; short-answer questions carry CorrectAnswer.
type Question struct {
	ID                 string       `json:"id"`
	Type               QuestionType `json:"type"`
	Text               string       `json:"text"`
	Options            []string     `json:"options,omitempty"`
	CorrectAnswerIndex *int         `json:"correctAnswerIndex,omitempty"`
	CorrectAnswer      *string      `json:"correctAnswer,omitempty"`
}

// QuestionDraft is a question as produced by the generation model, before
// it has an identifier.
type QuestionDraft struct {
	Type               QuestionType `json:"type"`
	Text               string       `json:"text"`
	Options            []string     `json:"options,omitempty"`
	CorrectAnswerIndex *int         `json:"correctAnswerIndex,omitempty"`
	CorrectAnswer      *string      `json:"correctAnswer,omitempty"`
}

// WithID turns the draft into a Question.
func (d QuestionDraft) WithID(id string) Question {
	q := Question{
		ID:                 id,
		Type:               d.Type,
		Text:               d.Text,
		Options:            d.Options,
		CorrectAnswerIndex: d.CorrectAnswerIndex,
		CorrectAnswer:      d.CorrectAnswer,
	}
	return q.Clone()
}

// Clone returns a deep copy so callers can mutate it freely.
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	if q.CorrectAnswerIndex != nil {
		idx := *q.CorrectAnswerIndex
		out.CorrectAnswerIndex = &idx
	}
	if q.CorrectAnswer != nil {
		ans := *q.CorrectAnswer
		out.CorrectAnswer = &ans
	}
	return out
}

// CheckShape verifies the per-type field invariant.
func (q Question) CheckShape() error {
	switch q.Type {
	case QuestionTypeMCQ:
		if len(q.Options) < 2 {
			return errors.New("multiple choice question needs at least two options")
		}
		if q.CorrectAnswerIndex == nil {
			return errors.New("multiple choice question has no correct answer index")
		}
		if *q.CorrectAnswerIndex < 0 || *q.CorrectAnswerIndex >= len(q.Options) {
			return fmt.Errorf("correct answer index %d out of range", *q.CorrectAnswerIndex)
		}
		if q.CorrectAnswer != nil {
			return errors.New("multiple choice question must not carry a text answer")
		}
	case QuestionTypeShortAnswer:
		if q.CorrectAnswer == nil {
			return errors.New("short answer question has no correct answer")
		}
		if q.Options != nil || q.CorrectAnswerIndex != nil {
			return errors.New("short answer question must not carry options")
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

// Quiz is an authored, persisted quiz.
type Quiz struct {
	ID                 string     `json:"id"`
	CreatorID          string     `json:"creatorId"`
	Subject            string     `json:"subject"`
	Questions          []Question `json:"questions"`
	ParticipationCount int        `json:"participationCount"`
	CreatedAt          int64      `json:"createdAt"`
}

func (q *Quiz) HasMCQ() bool {
	for _, question := range q.Questions {
		if question.Type == QuestionTypeMCQ {
			return true
		}
	}
	return false
}

func (q *Quiz) HasShortAnswer() bool {
	for _, question := range q.Questions {
		if question.Type == QuestionTypeShortAnswer {
			return true
		}
	}
	return false
}

// AnswerValue holds either an option index (MCQ) or free text.
type AnswerValue struct {
	index *int
	text  *string
}

func IndexAnswer(i int) AnswerValue {
	return AnswerValue{index: &i}
}

func TextAnswer(s string) AnswerValue {
	return AnswerValue{text: &s}
}

func (a AnswerValue) Index() (int, bool) {
	if a.index == nil {
		return 0, false
	}
	return *a.index, true
}

func (a AnswerValue) Text() (string, bool) {
	if a.text == nil {
		return "", false
	}
	return *a.text, true
}

// IsBlank reports an absent answer or an empty string.
func (a AnswerValue) IsBlank() bool {
	if a.index != nil {
		return false
	}
	return a.text == nil || *a.text == ""
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	switch {
	case a.index != nil:
		return json.Marshal(*a.index)
	case a.text != nil:
		return json.Marshal(*a.text)
	default:
		return []byte("null"), nil
	}
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = AnswerValue{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("answer must be a number or a string: %w", err)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("answer index must be a whole number, got %v", f)
	}
	*a = IndexAnswer(int(f))
	return nil
}

// UserAnswer is a participant's answer to one question.
type UserAnswer struct {
	QuestionID string      `json:"questionId"`
	Answer     AnswerValue `json:"answer"`
}

// EvaluationResult is the verdict for one sampled question.
type EvaluationResult struct {
	QuestionID string `json:"questionId"`
	IsCorrect  bool   `json:"isCorrect"`
}

// NotAnswered is the review label for a question left without an answer.
const NotAnswered = "Not Answered"

// AnswerReview restates one sampled question with its answer key so a
// finished session can be reviewed question by question.
type AnswerReview struct {
	QuestionID    string       `json:"questionId"`
	Type          QuestionType `json:"type"`
	Text          string       `json:"text"`
	Options       []string     `json:"options,omitempty"`
	Answer        *AnswerValue `json:"answer,omitempty"`
	AnswerText    string       `json:"answerText"`
	CorrectAnswer string       `json:"correctAnswer"`
	IsCorrect     bool         `json:"isCorrect"`
}

// LeaderboardEntry records one completed session. Entries are append-only.
type LeaderboardEntry struct {
	ID              string `json:"id"`
	ParticipantName string `json:"participantName"`
	QuizID          string `json:"quizId"`
	QuizTitle       string `json:"quizTitle"`
	Score           int    `json:"score"`
	TotalQuestions  int    `json:"totalQuestions"`
	Accuracy        int    `json:"accuracy"`
}

// SessionResult is the scored outcome of a submitted session.
type SessionResult struct {
	SessionID   string             `json:"sessionId"`
	QuizID      string             `json:"quizId"`
	Evaluations []EvaluationResult `json:"evaluations"`
	Review      []AnswerReview     `json:"review"`
	Score       int                `json:"score"`
	Total       int                `json:"totalQuestions"`
	Accuracy    int                `json:"accuracy"`
	Message     string             `json:"message"`
	Notices     []string           `json:"notices,omitempty"`
	Entry       LeaderboardEntry   `json:"leaderboardEntry"`
}
