package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"quizflare/internal/domain"

	"github.com/google/uuid"
)

const (
	maxAnswerLength          = 2000
	maxParticipantNameLength = 50
	maxSubjectLength         = 200
)

var (
	// Quiz ids are "quiz_<ulid>" for new quizzes but older stores used
	// timestamps, so only the character set is enforced.
	validQuizID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateQuizID validates a quiz identifier from a path parameter
func (v *Validator) ValidateQuizID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError("id"))
	} else if !validQuizID.MatchString(id) {
		errors = append(errors, domain.NewInvalidFormatError("id", id))
	}
	return errors
}

// ValidateSessionID validates a session identifier (a UUID)
func (v *Validator) ValidateSessionID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError("sessionId"))
	} else if _, err := uuid.Parse(id); err != nil {
		errors = append(errors, domain.NewInvalidFormatError("sessionId", id))
	}
	return errors
}

// ValidateNumQuestions checks the requested number of generated questions
func (v *Validator) ValidateNumQuestions(n int) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if n < 1 || n > domain.MaxQuestionsPerQuiz {
		errors = append(errors, domain.NewOutOfRangeError("numQuestions", n, 1, domain.MaxQuestionsPerQuiz))
	}
	return errors
}

// ValidateParticipantName checks the name shown on the leaderboard. Blank
// names are left to the session so the author-facing message stays in one
// place.
func (v *Validator) ValidateParticipantName(name string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if n := utf8.RuneCountInString(strings.TrimSpace(name)); n > maxParticipantNameLength {
		errors = append(errors, domain.NewOutOfRangeError("participantName", n, 1, maxParticipantNameLength))
	}
	return errors
}

// ValidateAnswer checks the size of a submitted answer
func (v *Validator) ValidateAnswer(answer domain.AnswerValue) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if text, ok := answer.Text(); ok {
		if n := utf8.RuneCountInString(text); n > maxAnswerLength {
			errors = append(errors, domain.NewOutOfRangeError("answer", n, 0, maxAnswerLength))
		}
	}
	if idx, ok := answer.Index(); ok && idx < 0 {
		errors = append(errors, domain.NewOutOfRangeError("answer", idx, 0, domain.MaxQuestionsPerQuiz))
	}
	return errors
}

// ValidateDraftShape checks limits the draft's own Validate does not cover:
// the subject length and the answer text length of every question.
func (v *Validator) ValidateDraftShape(d *domain.Draft) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if d == nil {
		return append(errors, domain.NewMissingFieldError("draft"))
	}
	if n := utf8.RuneCountInString(d.Subject); n > maxSubjectLength {
		errors = append(errors, domain.NewOutOfRangeError("subject", n, 1, maxSubjectLength))
	}
	for _, q := range d.Questions {
		if q.CorrectAnswer != nil && utf8.RuneCountInString(*q.CorrectAnswer) > maxAnswerLength {
			errors = append(errors, domain.NewOutOfRangeError("questions.correctAnswer", len(*q.CorrectAnswer), 0, maxAnswerLength))
		}
	}
	return errors
}
