package handler

import (
	"quizflare/internal/domain"
	"quizflare/internal/dto"
	"quizflare/internal/service"
	"quizflare/internal/validation"

	"github.com/gofiber/fiber/v2"
)

var errInvalidBody = domain.NewInvalidInputError("invalid request body")

// QuizHandler serves the catalogue, the leaderboard and quiz authoring.
type QuizHandler struct {
	quizzes   service.QuizService
	authoring service.AuthoringService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler
func NewQuizHandler(quizzes service.QuizService, authoring service.AuthoringService) *QuizHandler {
	return &QuizHandler{
		quizzes:   quizzes,
		authoring: authoring,
		validator: validation.NewValidator(),
	}
}

// ListQuizzes godoc
// @Summary List quizzes
// @Description Lists quizzes filtered by subject and question kind
// @Tags quizzes
// @Produce json
// @Param subject query string false "Subject, or All"
// @Param type query string false "All, MCQ, Short Questions or Mixed"
// @Param sort query string false "Newest First, Oldest First or Most Popular"
// @Success 200 {object} dto.QuizListResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	filter := service.QuizFilter{
		Subject: c.Query("subject"),
		Kind:    service.QuizKind(c.Query("type")),
		Sort:    service.QuizSort(c.Query("sort")),
	}
	quizzes, err := h.quizzes.ListQuizzes(c.UserContext(), filter)
	if err != nil {
		return err
	}
	if quizzes == nil {
		quizzes = []domain.Quiz{}
	}
	return c.JSON(dto.QuizListResponse{Quizzes: quizzes, Total: len(quizzes)})
}

// GetQuiz godoc
// @Summary Get a quiz
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} domain.Quiz
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.quizzes.GetQuiz(c.UserContext(), c.Locals("validated_quiz_id").(string))
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// ListSubjects godoc
// @Summary List subjects
// @Tags quizzes
// @Produce json
// @Success 200 {object} dto.SubjectsResponse
// @Router /subjects [get]
func (h *QuizHandler) ListSubjects(c *fiber.Ctx) error {
	subjects, err := h.quizzes.ListSubjects(c.UserContext())
	if err != nil {
		return err
	}
	if subjects == nil {
		subjects = []string{}
	}
	return c.JSON(dto.SubjectsResponse{Subjects: subjects})
}

// Leaderboard godoc
// @Summary Global leaderboard
// @Description Entries ranked by accuracy, then score
// @Tags leaderboard
// @Produce json
// @Success 200 {object} dto.LeaderboardResponse
// @Router /leaderboard [get]
func (h *QuizHandler) Leaderboard(c *fiber.Ctx) error {
	entries, err := h.quizzes.Leaderboard(c.UserContext())
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return c.JSON(dto.LeaderboardResponse{Entries: entries})
}

// Identity godoc
// @Summary Creator identity
// @Description Returns the creator id of this installation, creating it on first use
// @Tags authoring
// @Produce json
// @Success 200 {object} dto.IdentityResponse
// @Router /identity [get]
func (h *QuizHandler) Identity(c *fiber.Ctx) error {
	id, err := h.authoring.Identity(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.IdentityResponse{CreatorID: id})
}

// LoadDraft godoc
// @Summary Open a quiz for editing
// @Tags authoring
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.DraftResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/draft [get]
func (h *QuizHandler) LoadDraft(c *fiber.Ctx) error {
	draft, err := h.authoring.LoadDraft(c.UserContext(), c.Locals("validated_quiz_id").(string))
	if err != nil {
		return err
	}
	return c.JSON(dto.DraftResponse{Draft: *draft})
}

// CreateQuiz godoc
// @Summary Save a new quiz
// @Tags authoring
// @Accept json
// @Produce json
// @Param request body domain.Draft true "Draft"
// @Success 201 {object} domain.Quiz
// @Failure 400 {object} middleware.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var draft domain.Draft
	if err := c.BodyParser(&draft); err != nil {
		return errInvalidBody
	}
	draft.ID = ""
	quiz, err := h.save(c, &draft)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// UpdateQuiz godoc
// @Summary Save changes to an owned quiz
// @Tags authoring
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body domain.Draft true "Draft"
// @Success 200 {object} domain.Quiz
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	var draft domain.Draft
	if err := c.BodyParser(&draft); err != nil {
		return errInvalidBody
	}
	draft.ID = c.Locals("validated_quiz_id").(string)
	quiz, err := h.save(c, &draft)
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

func (h *QuizHandler) save(c *fiber.Ctx, draft *domain.Draft) (*domain.Quiz, error) {
	if errs := h.validator.ValidateDraftShape(draft); len(errs) > 0 {
		return nil, errs
	}
	return h.authoring.SaveDraft(c.UserContext(), draft)
}

// DeleteQuiz godoc
// @Summary Delete an owned quiz
// @Tags authoring
// @Param id path string true "Quiz ID"
// @Success 204
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	if err := h.authoring.DeleteQuiz(c.UserContext(), c.Locals("validated_quiz_id").(string)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
