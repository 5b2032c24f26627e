package handler

import (
	"errors"

	"quizflare/internal/domain"
	"quizflare/internal/dto"
	"quizflare/internal/logger"
	"quizflare/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	msgMethodNotAllowed  = "Method Not Allowed"
	msgAPIKeyMissing     = "API key is not configured on the server."
	msgEvaluateFailed    = "Failed to evaluate answer."
	msgGenerateFailed    = "Failed to generate quiz."
	msgNoSource          = "No source content provided."
	msgInvalidSourceData = "Source data is not valid base64."
)

// ProxyHandler serves the two AI endpoints. Unlike the rest of the API they
// answer errors with a bare {"error": "..."} body.
type ProxyHandler struct {
	evaluation service.EvaluationService
	authoring  service.AuthoringService
}

func NewProxyHandler(evaluation service.EvaluationService, authoring service.AuthoringService) *ProxyHandler {
	return &ProxyHandler{evaluation: evaluation, authoring: authoring}
}

func proxyError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}

// EvaluateAnswer godoc
// @Summary Judge a short answer
// @Description Asks the model whether the user's answer matches the expected one. Only POST is accepted.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body dto.EvaluateAnswerRequest true "Answer pair"
// @Success 200 {object} dto.EvaluateAnswerResponse
// @Failure 405 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /evaluate-answer [post]
func (h *ProxyHandler) EvaluateAnswer(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return proxyError(c, fiber.StatusMethodNotAllowed, msgMethodNotAllowed)
	}

	var req dto.EvaluateAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("evaluate-answer: unreadable body", zap.Error(err))
		return proxyError(c, fiber.StatusInternalServerError, msgEvaluateFailed)
	}

	verdict, err := h.evaluation.Judge(c.UserContext(), req.UserAnswer, req.CorrectAnswer)
	if err != nil {
		if errors.Is(err, service.ErrEvaluatorNotConfigured) {
			return proxyError(c, fiber.StatusInternalServerError, msgAPIKeyMissing)
		}
		logger.Get().Error("evaluate-answer: model call failed", zap.Error(err))
		return proxyError(c, fiber.StatusInternalServerError, msgEvaluateFailed)
	}
	return c.JSON(dto.EvaluateAnswerResponse{IsCorrect: verdict})
}

// GenerateQuiz godoc
// @Summary Generate quiz questions
// @Description Generates questions from a base64 document or pasted text and returns them as a JSON array. Only POST is accepted.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Source and count"
// @Success 200 {array} domain.QuestionDraft
// @Failure 400 {object} dto.ErrorResponse
// @Failure 405 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate-quiz [post]
func (h *ProxyHandler) GenerateQuiz(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return proxyError(c, fiber.StatusMethodNotAllowed, msgMethodNotAllowed)
	}

	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("generate-quiz: unreadable body", zap.Error(err))
		return proxyError(c, fiber.StatusInternalServerError, msgGenerateFailed)
	}

	src, err := req.Source.ToSource()
	if err != nil {
		return proxyError(c, fiber.StatusBadRequest, msgInvalidSourceData)
	}

	questions, err := h.authoring.GenerateQuestions(c.UserContext(), src, req.NumQuestions)
	if err != nil {
		var de *domain.DomainError
		switch {
		case errors.Is(err, service.ErrGeneratorNotConfigured):
			return proxyError(c, fiber.StatusInternalServerError, msgAPIKeyMissing)
		case errors.Is(err, domain.ErrNoSource):
			return proxyError(c, fiber.StatusBadRequest, msgNoSource)
		case errors.As(err, &de) && de.Code == domain.CodeInvalidInput:
			return proxyError(c, fiber.StatusBadRequest, de.Message)
		}
		logger.Get().Error("generate-quiz: generation failed", zap.Error(err))
		return proxyError(c, fiber.StatusInternalServerError, msgGenerateFailed)
	}
	return c.JSON(questions)
}
