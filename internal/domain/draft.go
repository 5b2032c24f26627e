package domain

import (
	"fmt"
	"strings"
)

const (
	MinQuestionsPerQuiz = 5
	MaxQuestionsPerQuiz = 50
)

// Draft is a quiz being authored. ID is empty until the quiz is first saved.
type Draft struct {
	ID        string     `json:"id,omitempty"`
	Subject   string     `json:"subject"`
	Questions []Question `json:"questions"`
}

// DraftFromQuiz loads an existing quiz for editing.
func DraftFromQuiz(q *Quiz) *Draft {
	d := &Draft{ID: q.ID, Subject: q.Subject, Questions: make([]Question, 0, len(q.Questions))}
	for _, question := range q.Questions {
		d.Questions = append(d.Questions, question.Clone())
	}
	return d
}

// AddQuestion appends a blank MCQ with four empty options. It returns false
// when the draft is already full.
func (d *Draft) AddQuestion(id string) bool {
	if len(d.Questions) >= MaxQuestionsPerQuiz {
		return false
	}
	zero := 0
	d.Questions = append(d.Questions, Question{
		ID:                 id,
		Type:               QuestionTypeMCQ,
		Text:               "",
		Options:            []string{"", "", "", ""},
		CorrectAnswerIndex: &zero,
	})
	return true
}

func (d *Draft) checkIndex(i int) error {
	if i < 0 || i >= len(d.Questions) {
		return NewInvalidInputError(fmt.Sprintf("question index %d out of range", i))
	}
	return nil
}

// UpdateQuestion replaces the question at i, keeping its identifier.
func (d *Draft) UpdateQuestion(i int, q Question) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	q = q.Clone()
	q.ID = d.Questions[i].ID
	d.Questions[i] = q
	return nil
}

func (d *Draft) RemoveQuestion(i int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
	return nil
}

// ChangeType switches a question between MCQ and short answer. Fields that
// belong to the old type are dropped; fields the new type needs are filled
// with blanks unless already present.
func (d *Draft) ChangeType(i int, t QuestionType) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	if !t.Valid() {
		return NewInvalidInputError(fmt.Sprintf("unknown question type %q", t))
	}
	q := d.Questions[i]
	q.Type = t
	if t == QuestionTypeMCQ {
		q.CorrectAnswer = nil
		if q.Options == nil {
			q.Options = []string{"", "", "", ""}
		}
		if q.CorrectAnswerIndex == nil {
			zero := 0
			q.CorrectAnswerIndex = &zero
		}
	} else {
		q.Options = nil
		q.CorrectAnswerIndex = nil
		if q.CorrectAnswer == nil {
			empty := ""
			q.CorrectAnswer = &empty
		}
	}
	d.Questions[i] = q
	return nil
}

// AppendGenerated adds generated questions and truncates the draft to the
// maximum size. It returns how many were kept.
func (d *Draft) AppendGenerated(qs []Question) int {
	before := len(d.Questions)
	for _, q := range qs {
		if len(d.Questions) >= MaxQuestionsPerQuiz {
			break
		}
		d.Questions = append(d.Questions, q.Clone())
	}
	return len(d.Questions) - before
}

// Validate applies the save-time checks in the order authors see them.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Subject) == "" {
		return NewDraftValidationError("Subject is required.")
	}
	if len(d.Questions) < MinQuestionsPerQuiz {
		return NewDraftValidationError("A minimum of 5 questions is required.")
	}
	if len(d.Questions) > MaxQuestionsPerQuiz {
		return NewDraftValidationError("A maximum of 50 questions is allowed.")
	}
	for _, q := range d.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return NewDraftValidationError("All questions must have text.")
		}
	}
	for i, q := range d.Questions {
		if err := q.CheckShape(); err != nil {
			return NewDraftValidationError(fmt.Sprintf("Question %d is malformed: %v.", i+1, err))
		}
	}
	return nil
}
