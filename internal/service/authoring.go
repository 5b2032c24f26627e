package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizflare/internal/domain"
	"quizflare/internal/logger"
	"quizflare/internal/util"

	"go.uber.org/zap"
)

// ErrGeneratorNotConfigured is returned when question generation is
// requested but no model credential was configured.
var ErrGeneratorNotConfigured = errors.New("question generator is not configured")

// DraftOpKind names an editing step on a draft.
type DraftOpKind string

const (
	DraftOpAdd        DraftOpKind = "add"
	DraftOpUpdate     DraftOpKind = "update"
	DraftOpRemove     DraftOpKind = "remove"
	DraftOpChangeType DraftOpKind = "changeType"
)

// DraftOperation is one editing step. Index is ignored by add; Question is
// used by update and Type by changeType.
type DraftOperation struct {
	Kind     DraftOpKind
	Index    int
	Type     domain.QuestionType
	Question domain.Question
}

// GenerationOutcome is what a generation request did to a draft. Notice is
// always set: it reports either success or the failure.
type GenerationOutcome struct {
	Draft     *domain.Draft
	Generated int
	Notice    string
}

// AuthoringService covers creating, editing and deleting quizzes on behalf
// of the device's creator identity.
type AuthoringService interface {
	Identity(ctx context.Context) (string, error)
	LoadDraft(ctx context.Context, quizID string) (*domain.Draft, error)
	ApplyOperation(draft *domain.Draft, op DraftOperation) error
	SaveDraft(ctx context.Context, draft *domain.Draft) (*domain.Quiz, error)
	DeleteQuiz(ctx context.Context, quizID string) error

	// GenerateQuestions returns the model's questions or an error.
	GenerateQuestions(ctx context.Context, src domain.Source, count int) ([]domain.QuestionDraft, error)

	// GenerateIntoDraft appends generated questions to the draft. Failures
	// leave the draft untouched and are reported through the notice.
	GenerateIntoDraft(ctx context.Context, draft *domain.Draft, src domain.Source, count int) GenerationOutcome
}

type authoringService struct {
	quizzes   domain.QuizRepository
	identity  domain.IdentityRepository
	generator domain.QuestionGenerator
	now       func() time.Time
}

// NewAuthoringService accepts a nil generator; generation then reports that
// no model is configured.
func NewAuthoringService(quizzes domain.QuizRepository, identity domain.IdentityRepository, generator domain.QuestionGenerator) AuthoringService {
	return &authoringService{
		quizzes:   quizzes,
		identity:  identity,
		generator: generator,
		now:       time.Now,
	}
}

func (s *authoringService) Identity(ctx context.Context) (string, error) {
	return s.identity.GetOrCreateCreatorID(ctx)
}

// ownedQuiz loads a quiz and checks it belongs to the device's identity.
func (s *authoringService) ownedQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	creatorID, ok, err := s.identity.GetCreatorID(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || quiz.CreatorID != creatorID {
		return nil, domain.NewForbiddenError("only the creator can modify this quiz").
			WithContext("quizID", quizID)
	}
	return quiz, nil
}

func (s *authoringService) LoadDraft(ctx context.Context, quizID string) (*domain.Draft, error) {
	quiz, err := s.ownedQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return domain.DraftFromQuiz(quiz), nil
}

func (s *authoringService) ApplyOperation(draft *domain.Draft, op DraftOperation) error {
	if draft == nil {
		return domain.NewInvalidInputError("draft is required")
	}
	switch op.Kind {
	case DraftOpAdd:
		if !draft.AddQuestion(util.NewPrefixedID("q")) {
			return domain.NewDraftValidationError("A maximum of 50 questions is allowed.")
		}
		return nil
	case DraftOpUpdate:
		return draft.UpdateQuestion(op.Index, op.Question)
	case DraftOpRemove:
		return draft.RemoveQuestion(op.Index)
	case DraftOpChangeType:
		return draft.ChangeType(op.Index, op.Type)
	}
	return domain.NewInvalidInputError(fmt.Sprintf("unknown draft operation %q", op.Kind))
}

// SaveDraft validates the draft and stores it. A draft without an id becomes
// a new quiz; a draft with an id replaces that quiz if the caller owns it.
func (s *authoringService) SaveDraft(ctx context.Context, draft *domain.Draft) (*domain.Quiz, error) {
	if draft == nil {
		return nil, domain.NewInvalidInputError("draft is required")
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	quiz := &domain.Quiz{
		Subject:   draft.Subject,
		Questions: withQuestionIDs(draft.Questions),
	}

	if draft.ID != "" {
		existing, err := s.ownedQuiz(ctx, draft.ID)
		if err != nil {
			return nil, err
		}
		quiz.ID = existing.ID
		quiz.CreatorID = existing.CreatorID
		quiz.ParticipationCount = existing.ParticipationCount
		quiz.CreatedAt = existing.CreatedAt
	} else {
		creatorID, err := s.identity.GetOrCreateCreatorID(ctx)
		if err != nil {
			return nil, err
		}
		quiz.ID = util.NewPrefixedID("quiz")
		quiz.CreatorID = creatorID
		quiz.CreatedAt = s.now().UnixMilli()
	}

	if err := s.quizzes.SaveQuiz(ctx, quiz); err != nil {
		logger.Get().Error("AuthoringService: failed to save quiz", zap.Error(err), zap.String("quizID", quiz.ID))
		return nil, err
	}
	logger.Get().Info("AuthoringService: quiz saved",
		zap.String("quizID", quiz.ID),
		zap.Int("questions", len(quiz.Questions)),
		zap.Bool("edited", draft.ID != ""))
	return quiz, nil
}

// withQuestionIDs copies the questions, giving fresh ids to any that are
// missing or repeated.
func withQuestionIDs(questions []domain.Question) []domain.Question {
	out := make([]domain.Question, 0, len(questions))
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		q = q.Clone()
		if _, dup := seen[q.ID]; q.ID == "" || dup {
			q.ID = util.NewPrefixedID("q")
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out
}

func (s *authoringService) DeleteQuiz(ctx context.Context, quizID string) error {
	if _, err := s.ownedQuiz(ctx, quizID); err != nil {
		return err
	}
	if err := s.quizzes.DeleteQuiz(ctx, quizID); err != nil {
		logger.Get().Error("AuthoringService: failed to delete quiz", zap.Error(err), zap.String("quizID", quizID))
		return err
	}
	return nil
}

func (s *authoringService) GenerateQuestions(ctx context.Context, src domain.Source, count int) ([]domain.QuestionDraft, error) {
	if s.generator == nil {
		return nil, ErrGeneratorNotConfigured
	}
	if err := src.Check(); err != nil {
		return nil, err
	}
	return s.generator.GenerateQuestions(ctx, src, count)
}

func (s *authoringService) GenerateIntoDraft(ctx context.Context, draft *domain.Draft, src domain.Source, count int) GenerationOutcome {
	if draft == nil {
		draft = &domain.Draft{}
	}

	drafts, err := s.GenerateQuestions(ctx, src, count)
	if err != nil {
		logger.Get().Warn("AuthoringService: question generation failed", zap.Error(err))
		return GenerationOutcome{
			Draft:  draft,
			Notice: fmt.Sprintf("AI generation failed: %s. Please try again.", generationFailureReason(err)),
		}
	}

	questions := make([]domain.Question, 0, len(drafts))
	for _, d := range drafts {
		questions = append(questions, d.WithID(util.NewPrefixedID("q")))
	}
	kept := draft.AppendGenerated(questions)
	return GenerationOutcome{
		Draft:     draft,
		Generated: kept,
		Notice:    fmt.Sprintf("%d questions generated successfully!", kept),
	}
}

func generationFailureReason(err error) string {
	var de *domain.DomainError
	switch {
	case errors.Is(err, domain.ErrNoSource):
		return "No source content provided"
	case errors.Is(err, ErrGeneratorNotConfigured):
		return "API key is not configured on the server"
	case errors.As(err, &de) && de.Code == domain.CodeInvalidInput:
		return de.Message
	default:
		return "Failed to generate quiz"
	}
}
