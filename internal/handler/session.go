package handler

import (
	"quizflare/internal/dto"
	"quizflare/internal/service"
	"quizflare/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler drives a participant through a timed quiz.
type SessionHandler struct {
	sessions  service.SessionService
	validator *validation.Validator
}

func NewSessionHandler(sessions service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions, validator: validation.NewValidator()}
}

func sessionID(c *fiber.Ctx) string {
	return c.Locals("validated_session_id").(string)
}

// CreateSession godoc
// @Summary Open a session for a quiz
// @Description The session waits for the participant's name before the clock starts
// @Tags sessions
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 201 {object} service.SessionState
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	state, err := h.sessions.Create(c.UserContext(), c.Locals("validated_quiz_id").(string))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(state)
}

// StartSession godoc
// @Summary Enter the participant name and start
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.StartSessionRequest true "Participant"
// @Success 200 {object} service.SessionState
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/start [post]
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}
	if errs := h.validator.ValidateParticipantName(req.ParticipantName); len(errs) > 0 {
		return errs
	}
	state, err := h.sessions.Start(c.UserContext(), sessionID(c), req.ParticipantName)
	if err != nil {
		return err
	}
	return c.JSON(state)
}

// GetSession godoc
// @Summary Current session state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} service.SessionState
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	state, err := h.sessions.Get(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(state)
}

// Answer godoc
// @Summary Answer the current question
// @Description Answering the last question submits the session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AnswerRequest true "Option index or text"
// @Success 200 {object} service.SessionState
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/answers [post]
func (h *SessionHandler) Answer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}
	if errs := h.validator.ValidateAnswer(req.Answer); len(errs) > 0 {
		return errs
	}
	state, err := h.sessions.Answer(c.UserContext(), sessionID(c), req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(state)
}

// Submit godoc
// @Summary Submit early
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.SessionResult
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	result, err := h.sessions.Submit(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Cancel godoc
// @Summary Leave a session without scoring
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Cancel(c *fiber.Ctx) error {
	if err := h.sessions.Cancel(c.UserContext(), sessionID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Result godoc
// @Summary Scored result of a finished session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.SessionResult
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/result [get]
func (h *SessionHandler) Result(c *fiber.Ctx) error {
	result, err := h.sessions.Result(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(result)
}
