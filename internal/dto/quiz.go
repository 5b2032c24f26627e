package dto

import (
	"encoding/base64"

	"quizflare/internal/domain"
	"quizflare/internal/service"
)

// ErrorResponse is the body of a failed AI proxy call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// EvaluateAnswerRequest represents a short answer to judge
// @Description Request body for the answer evaluation proxy
type EvaluateAnswerRequest struct {
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
}

// EvaluateAnswerResponse represents the verdict of the model
type EvaluateAnswerResponse struct {
	IsCorrect bool `json:"isCorrect"`
}

// SourceRequest carries either a base64 document or pasted text.
type SourceRequest struct {
	Base64Data string `json:"base64Data,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	Text       string `json:"text,omitempty"`
}

// ToSource decodes the document. The document wins when both are present.
func (s SourceRequest) ToSource() (domain.Source, error) {
	if s.Base64Data != "" && s.MimeType != "" {
		data, err := base64.StdEncoding.DecodeString(s.Base64Data)
		if err != nil {
			return domain.Source{}, domain.ValidationErrors{domain.NewInvalidFormatError("source.base64Data", "<binary>")}
		}
		return domain.Source{Data: data, MIMEType: s.MimeType}, nil
	}
	return domain.Source{Text: s.Text}, nil
}

// GenerateQuizRequest represents a question generation request
// @Description Request body for the quiz generation proxy
type GenerateQuizRequest struct {
	Source       SourceRequest `json:"source"`
	NumQuestions int           `json:"numQuestions"`
}

// QuizListResponse wraps the filtered home listing
type QuizListResponse struct {
	Quizzes []domain.Quiz `json:"quizzes"`
	Total   int           `json:"total"`
}

// SubjectsResponse lists the distinct quiz subjects
type SubjectsResponse struct {
	Subjects []string `json:"subjects"`
}

// IdentityResponse carries the device's creator identity
type IdentityResponse struct {
	CreatorID string `json:"creatorId"`
}

// DraftOperationRequest applies one editing step to a draft
// @Description op is one of add, update, remove, changeType
type DraftOperationRequest struct {
	Draft    domain.Draft        `json:"draft"`
	Op       string              `json:"op"`
	Index    int                 `json:"index"`
	Type     domain.QuestionType `json:"type,omitempty"`
	Question *domain.Question    `json:"question,omitempty"`
}

// ToOperation converts the request to a service operation.
func (r DraftOperationRequest) ToOperation() service.DraftOperation {
	op := service.DraftOperation{
		Kind:  service.DraftOpKind(r.Op),
		Index: r.Index,
		Type:  r.Type,
	}
	if r.Question != nil {
		op.Question = *r.Question
	}
	return op
}

// DraftResponse returns the edited draft
type DraftResponse struct {
	Draft domain.Draft `json:"draft"`
}

// GenerateIntoDraftRequest asks for questions to append to a draft
type GenerateIntoDraftRequest struct {
	Draft        domain.Draft  `json:"draft"`
	Source       SourceRequest `json:"source"`
	NumQuestions int           `json:"numQuestions"`
}

// GenerateIntoDraftResponse reports the outcome of a generation request
type GenerateIntoDraftResponse struct {
	Draft     domain.Draft `json:"draft"`
	Generated int          `json:"generated"`
	Notice    string       `json:"notice"`
}

// StartSessionRequest carries the participant's name
type StartSessionRequest struct {
	ParticipantName string `json:"participantName"`
}

// AnswerRequest carries an option index (MCQ) or text (short answer)
type AnswerRequest struct {
	Answer domain.AnswerValue `json:"answer"`
}

// LeaderboardResponse lists ranked leaderboard entries
type LeaderboardResponse struct {
	Entries []domain.LeaderboardEntry `json:"entries"`
}

// HealthResponse reports the state of the service and its dependencies
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version,omitempty"`
}
