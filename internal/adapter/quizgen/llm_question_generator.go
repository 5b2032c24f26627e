package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"quizflare/internal/adapter/llm"
	"quizflare/internal/domain"
	"quizflare/internal/logger"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const generationPrompt = `Based on the content of the provided document/text, generate %d quiz questions. The question types can be 'MCQ' or 'Short Answer'. Provide the response as a valid JSON array of objects. Each object must have: 'type' ('MCQ' or 'Short Answer'), 'text' (the question), 'options' (an array of 4 strings, only for MCQ), 'correctAnswerIndex' (a number from 0-3, only for MCQ), and 'correctAnswer' (a string, only for Short Answer). Do not include any other text or formatting outside of the JSON array. For 'Short Answer' questions, 'options' and 'correctAnswerIndex' should be omitted. For 'MCQ' questions, 'correctAnswer' should be omitted.`

var fenceRegex = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// ErrNoUsableQuestions is returned when the reply parsed but every item
// was invalid.
var ErrNoUsableQuestions = errors.New("model returned no usable questions")

type llmQuestionGenerator struct {
	model llm.Model
}

// NewLLMQuestionGenerator creates a domain.QuestionGenerator backed by model.
func NewLLMQuestionGenerator(model llm.Model) domain.QuestionGenerator {
	return &llmQuestionGenerator{model: model}
}

// GenerateQuestions asks the model for count questions about src. Items
// that do not describe a well-formed question are dropped.
func (g *llmQuestionGenerator) GenerateQuestions(ctx context.Context, src domain.Source, count int) ([]domain.QuestionDraft, error) {
	if err := src.Check(); err != nil {
		return nil, err
	}
	if count < 1 || count > domain.MaxQuestionsPerQuiz {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("numQuestions must be between 1 and %d", domain.MaxQuestionsPerQuiz))
	}

	parts := []llm.Part{llm.TextPart(fmt.Sprintf(generationPrompt, count))}
	if src.HasDocument() {
		parts = append(parts, llm.BlobPart(src.MIMEType, src.Data))
	} else {
		parts = append(parts, llm.TextPart(src.Text))
	}

	raw, err := g.model.Generate(ctx, parts, llm.CallOptions{JSON: true})
	if err != nil {
		return nil, domain.NewLLMServiceError(err)
	}

	drafts, err := ParseQuestions(raw)
	if err != nil {
		logger.Get().Warn("Unusable question generation reply",
			zap.String("model", g.model.Name()),
			zap.Error(err),
			zap.Int("reply_length", len(raw)))
		return nil, domain.NewLLMServiceError(err)
	}
	logger.Get().Info("Generated questions",
		zap.Int("requested", count),
		zap.Int("returned", len(drafts)))
	return drafts, nil
}

// StripFence removes a surrounding markdown code fence, if any.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if m := fenceRegex.FindStringSubmatch(s); m != nil && m[2] != "" {
		return strings.TrimSpace(m[2])
	}
	return s
}

// ParseQuestions decodes a model reply into question drafts.
func ParseQuestions(raw string) ([]domain.QuestionDraft, error) {
	compiled, err := loadSchemas()
	if err != nil {
		return nil, err
	}

	body := StripFence(raw)
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, fmt.Errorf("reply is not a JSON array: %w", err)
	}
	var generic any
	if err := json.Unmarshal([]byte(body), &generic); err != nil {
		return nil, err
	}
	if err := compiled.list.Validate(generic); err != nil {
		return nil, fmt.Errorf("reply does not match the question list schema: %w", err)
	}

	drafts := make([]domain.QuestionDraft, 0, len(items))
	for i, item := range items {
		draft, err := normalize(compiled, item)
		if err != nil {
			logger.Get().Warn("Dropping generated question", zap.Int("index", i), zap.Error(err))
			continue
		}
		drafts = append(drafts, draft)
	}
	if len(drafts) == 0 {
		return nil, ErrNoUsableQuestions
	}
	return drafts, nil
}

func normalize(compiled compiledSchemas, item json.RawMessage) (domain.QuestionDraft, error) {
	var generic any
	if err := json.Unmarshal(item, &generic); err != nil {
		return domain.QuestionDraft{}, err
	}
	if err := compiled.question.Validate(generic); err != nil {
		return domain.QuestionDraft{}, err
	}

	var d domain.QuestionDraft
	if err := json.Unmarshal(item, &d); err != nil {
		return domain.QuestionDraft{}, err
	}
	d.Text = strings.TrimSpace(d.Text)
	if d.Type == domain.QuestionTypeMCQ {
		d.CorrectAnswer = nil
	} else {
		d.Options = nil
		d.CorrectAnswerIndex = nil
	}
	if err := d.WithID("").CheckShape(); err != nil {
		return domain.QuestionDraft{}, err
	}
	return d, nil
}
