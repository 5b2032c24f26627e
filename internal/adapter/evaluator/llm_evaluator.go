package evaluator

import (
	"context"
	"fmt"
	"quizflare/internal/adapter/llm"
	"quizflare/internal/domain"
	"quizflare/internal/logger"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const evaluationPrompt = `You are an expert, multilingual quiz evaluator. Your task is to determine if the user's answer is correct, even if it's in a different language from the provided correct answer. The correct answer is: '%s'. The user's submitted answer is: '%s'. Evaluate if the user's answer is semantically and factually equivalent to the correct answer. For example, if the correct answer is 'Dhaka' and the user answers 'ঢাকা', it is correct. Consider synonyms, common knowledge, minor typos, and context. Respond with only the single word 'Correct' or 'Incorrect'.`

// llmEvaluator implements domain.AnswerEvaluator
type llmEvaluator struct {
	model llm.Model
}

// NewLLMEvaluator creates a new instance of llmEvaluator
func NewLLMEvaluator(model llm.Model) domain.AnswerEvaluator {
	return &llmEvaluator{model: model}
}

// EvaluateAnswer implements domain.AnswerEvaluator
func (e *llmEvaluator) EvaluateAnswer(ctx context.Context, userAnswer, correctAnswer string) (bool, error) {
	l := logger.Get()
	prompt := fmt.Sprintf(evaluationPrompt, correctAnswer, userAnswer)

	raw, err := e.model.Generate(ctx, []llm.Part{llm.TextPart(prompt)}, llm.CallOptions{Temperature: 0.1})
	if err != nil {
		l.Warn("LLM evaluation call failed", zap.String("model", e.model.Name()), zap.Error(err))
		return false, domain.NewLLMServiceError(err)
	}
	l.Debug("Raw LLM verdict received", zap.String("raw_response", raw))

	verdict, err := ParseVerdict(raw)
	if err != nil {
		l.Warn("Unrecognized LLM verdict", zap.String("raw_response", raw))
		return false, domain.NewLLMServiceError(err)
	}
	return verdict, nil
}

// ParseVerdict reads a "Correct"/"Incorrect" reply. Reasoning blocks,
// surrounding quotes and trailing punctuation are ignored.
func ParseVerdict(raw string) (bool, error) {
	cleaned := strings.TrimSpace(raw)

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):]
		}
	}

	cleaned = strings.ToLower(strings.Trim(strings.TrimSpace(cleaned), " \t\r\n.!\"'`*"))
	switch cleaned {
	case "correct":
		return true, nil
	case "incorrect":
		return false, nil
	}
	return false, fmt.Errorf("unrecognized verdict %q", truncate(cleaned, 40))
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
